package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

// submissionRepository implements repository.SubmissionRepository for SQLite.
type submissionRepository struct {
	db *DB
}

// NewSubmissionRepository creates a new SQLite submission repository.
func NewSubmissionRepository(db *DB) repository.SubmissionRepository {
	return &submissionRepository{db: db}
}

const submissionColumns = `id, title, description, theme, age_rating, price,
	contact_email, submitter_id, status, created_at, decided_at`

// Create appends a submission.
func (r *submissionRepository) Create(ctx context.Context, sub *domain.GameSubmission) error {
	query := `
		INSERT INTO submissions (` + submissionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, submissionArgs(sub)...)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

// GetByID retrieves a submission by id.
func (r *submissionRepository) GetByID(ctx context.Context, id string) (*domain.GameSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = ?`

	sub, err := scanSubmission(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

// Update replaces the stored record for the submission's id.
func (r *submissionRepository) Update(ctx context.Context, sub *domain.GameSubmission) error {
	query := `
		UPDATE submissions
		SET title = ?, description = ?, theme = ?, age_rating = ?, price = ?,
		    contact_email = ?, submitter_id = ?, status = ?, created_at = ?, decided_at = ?
		WHERE id = ?
	`

	args := submissionArgs(sub)
	// Shift the id from the front of the insert ordering to the WHERE clause.
	args = append(args[1:], sub.ID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all submissions in creation order, optionally filtered by status.
func (r *submissionRepository) List(ctx context.Context, status domain.SubmissionStatus) ([]*domain.GameSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at ASC, id ASC`

	return r.queryAll(ctx, query, args...)
}

// ListBySubmitter returns all submissions filed by the user.
func (r *submissionRepository) ListBySubmitter(ctx context.Context, submitterID string) ([]*domain.GameSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions
		WHERE submitter_id = ? ORDER BY created_at ASC, id ASC`

	return r.queryAll(ctx, query, submitterID)
}

// ReplaceAll replaces the whole collection inside one transaction.
func (r *submissionRepository) ReplaceAll(ctx context.Context, subs []*domain.GameSubmission) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM submissions`); err != nil {
			return fmt.Errorf("failed to clear submissions: %w", err)
		}

		insert := `
			INSERT INTO submissions (` + submissionColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		for _, sub := range subs {
			if _, err := tx.ExecContext(ctx, insert, submissionArgs(sub)...); err != nil {
				return fmt.Errorf("failed to insert submission %s: %w", sub.ID, err)
			}
		}
		return nil
	})
}

// queryAll runs a query and scans every submission row.
func (r *submissionRepository) queryAll(ctx context.Context, query string, args ...interface{}) ([]*domain.GameSubmission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []*domain.GameSubmission
	for rows.Next() {
		sub, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}

	return subs, nil
}

// submissionArgs returns the column values in insert order.
func submissionArgs(sub *domain.GameSubmission) []interface{} {
	var decidedAt interface{}
	if sub.DecidedAt != nil {
		decidedAt = encodeTime(*sub.DecidedAt)
	}
	return []interface{}{
		sub.ID,
		sub.Title,
		sub.Description,
		sub.Theme,
		sub.AgeRating,
		sub.Price,
		sub.ContactEmail,
		sub.SubmitterID,
		string(sub.Status),
		encodeTime(sub.CreatedAt),
		decidedAt,
	}
}

// scanSubmission maps one row onto a domain.GameSubmission.
func scanSubmission(scan func(dest ...interface{}) error) (*domain.GameSubmission, error) {
	sub := &domain.GameSubmission{}
	var status, createdAt string
	var decidedAt sql.NullString

	err := scan(
		&sub.ID,
		&sub.Title,
		&sub.Description,
		&sub.Theme,
		&sub.AgeRating,
		&sub.Price,
		&sub.ContactEmail,
		&sub.SubmitterID,
		&status,
		&createdAt,
		&decidedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan submission: %w", err)
	}

	sub.Status = domain.SubmissionStatus(status)
	if sub.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if decidedAt.Valid {
		t, err := decodeTime(decidedAt.String)
		if err != nil {
			return nil, err
		}
		sub.DecidedAt = &t
	}

	return sub, nil
}
