package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

// frameRepository implements repository.FrameRepository for SQLite.
type frameRepository struct {
	db *DB
}

// NewFrameRepository creates a new SQLite frame repository.
func NewFrameRepository(db *DB) repository.FrameRepository {
	return &frameRepository{db: db}
}

// Create appends a frame to the catalog.
func (r *frameRepository) Create(ctx context.Context, frame *domain.Frame) error {
	query := `
		INSERT INTO frames (id, name, price, border_style, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		frame.ID,
		frame.Name,
		frame.Price,
		frame.BorderStyle,
		encodeTime(frame.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create frame: %w", err)
	}

	return nil
}

// GetByID retrieves a frame by id.
func (r *frameRepository) GetByID(ctx context.Context, id string) (*domain.Frame, error) {
	query := `SELECT id, name, price, border_style, created_at FROM frames WHERE id = ?`

	frame := &domain.Frame{}
	var createdAt string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&frame.ID,
		&frame.Name,
		&frame.Price,
		&frame.BorderStyle,
		&createdAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get frame: %w", err)
	}

	if frame.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}

	return frame, nil
}

// List returns all frames in creation order.
func (r *frameRepository) List(ctx context.Context) ([]*domain.Frame, error) {
	query := `SELECT id, name, price, border_style, created_at FROM frames ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}
	defer rows.Close()

	var frames []*domain.Frame
	for rows.Next() {
		frame := &domain.Frame{}
		var createdAt string

		if err := rows.Scan(&frame.ID, &frame.Name, &frame.Price, &frame.BorderStyle, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan frame: %w", err)
		}
		if frame.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}

		frames = append(frames, frame)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating frames: %w", err)
	}

	return frames, nil
}

// Count returns the number of frames.
func (r *frameRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM frames`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count frames: %w", err)
	}
	return count, nil
}

// ReplaceAll replaces the whole collection inside one transaction.
func (r *frameRepository) ReplaceAll(ctx context.Context, frames []*domain.Frame) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM frames`); err != nil {
			return fmt.Errorf("failed to clear frames: %w", err)
		}

		insert := `
			INSERT INTO frames (id, name, price, border_style, created_at)
			VALUES (?, ?, ?, ?, ?)
		`
		for _, frame := range frames {
			if _, err := tx.ExecContext(ctx, insert,
				frame.ID,
				frame.Name,
				frame.Price,
				frame.BorderStyle,
				encodeTime(frame.CreatedAt),
			); err != nil {
				return fmt.Errorf("failed to insert frame %s: %w", frame.ID, err)
			}
		}
		return nil
	})
}
