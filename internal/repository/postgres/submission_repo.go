package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

// submissionRepository implements repository.SubmissionRepository for PostgreSQL.
type submissionRepository struct {
	db *DB
}

// NewSubmissionRepository creates a new PostgreSQL submission repository.
func NewSubmissionRepository(db *DB) repository.SubmissionRepository {
	return &submissionRepository{db: db}
}

const submissionColumns = `id, title, description, theme, age_rating, price,
	contact_email, submitter_id, status, created_at, decided_at`

// Create appends a submission.
func (r *submissionRepository) Create(ctx context.Context, sub *domain.GameSubmission) error {
	query := `
		INSERT INTO submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		sub.ID, sub.Title, sub.Description, sub.Theme, sub.AgeRating, sub.Price,
		sub.ContactEmail, sub.SubmitterID, string(sub.Status), sub.CreatedAt, sub.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

// GetByID retrieves a submission by id.
func (r *submissionRepository) GetByID(ctx context.Context, id string) (*domain.GameSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	sub := &domain.GameSubmission{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&sub.ID, &sub.Title, &sub.Description, &sub.Theme, &sub.AgeRating, &sub.Price,
		&sub.ContactEmail, &sub.SubmitterID, &sub.Status, &sub.CreatedAt, &sub.DecidedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return sub, nil
}

// Update replaces the stored record for the submission's id.
func (r *submissionRepository) Update(ctx context.Context, sub *domain.GameSubmission) error {
	query := `
		UPDATE submissions
		SET title = $1, description = $2, theme = $3, age_rating = $4, price = $5,
		    contact_email = $6, submitter_id = $7, status = $8, created_at = $9, decided_at = $10
		WHERE id = $11
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		sub.Title, sub.Description, sub.Theme, sub.AgeRating, sub.Price,
		sub.ContactEmail, sub.SubmitterID, string(sub.Status), sub.CreatedAt, sub.DecidedAt,
		sub.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all submissions in creation order, optionally filtered by status.
func (r *submissionRepository) List(ctx context.Context, status domain.SubmissionStatus) ([]*domain.GameSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at ASC, id ASC`

	return r.queryAll(ctx, query, args...)
}

// ListBySubmitter returns all submissions filed by the user.
func (r *submissionRepository) ListBySubmitter(ctx context.Context, submitterID string) ([]*domain.GameSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions
		WHERE submitter_id = $1 ORDER BY created_at ASC, id ASC`

	return r.queryAll(ctx, query, submitterID)
}

// ReplaceAll replaces the whole collection inside one transaction.
func (r *submissionRepository) ReplaceAll(ctx context.Context, subs []*domain.GameSubmission) error {
	return r.db.WithTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM submissions`); err != nil {
			return fmt.Errorf("failed to clear submissions: %w", err)
		}

		insert := `
			INSERT INTO submissions (` + submissionColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		for _, sub := range subs {
			if _, err := tx.Exec(ctx, insert,
				sub.ID, sub.Title, sub.Description, sub.Theme, sub.AgeRating, sub.Price,
				sub.ContactEmail, sub.SubmitterID, string(sub.Status), sub.CreatedAt, sub.DecidedAt,
			); err != nil {
				return fmt.Errorf("failed to insert submission %s: %w", sub.ID, err)
			}
		}
		return nil
	})
}

// queryAll runs a query and scans every submission row.
func (r *submissionRepository) queryAll(ctx context.Context, query string, args ...interface{}) ([]*domain.GameSubmission, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []*domain.GameSubmission
	for rows.Next() {
		sub := &domain.GameSubmission{}
		if err := rows.Scan(
			&sub.ID, &sub.Title, &sub.Description, &sub.Theme, &sub.AgeRating, &sub.Price,
			&sub.ContactEmail, &sub.SubmitterID, &sub.Status, &sub.CreatedAt, &sub.DecidedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}

	return subs, nil
}
