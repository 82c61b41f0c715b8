package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

// frameRepository implements repository.FrameRepository for PostgreSQL.
type frameRepository struct {
	db *DB
}

// NewFrameRepository creates a new PostgreSQL frame repository.
func NewFrameRepository(db *DB) repository.FrameRepository {
	return &frameRepository{db: db}
}

// Create appends a frame to the catalog.
func (r *frameRepository) Create(ctx context.Context, frame *domain.Frame) error {
	query := `
		INSERT INTO frames (id, name, price, border_style, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		frame.ID, frame.Name, frame.Price, frame.BorderStyle, frame.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create frame: %w", err)
	}

	return nil
}

// GetByID retrieves a frame by id.
func (r *frameRepository) GetByID(ctx context.Context, id string) (*domain.Frame, error) {
	query := `SELECT id, name, price, border_style, created_at FROM frames WHERE id = $1`

	frame := &domain.Frame{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&frame.ID, &frame.Name, &frame.Price, &frame.BorderStyle, &frame.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get frame: %w", err)
	}

	return frame, nil
}

// List returns all frames in creation order.
func (r *frameRepository) List(ctx context.Context) ([]*domain.Frame, error) {
	query := `SELECT id, name, price, border_style, created_at FROM frames ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}
	defer rows.Close()

	var frames []*domain.Frame
	for rows.Next() {
		frame := &domain.Frame{}
		if err := rows.Scan(&frame.ID, &frame.Name, &frame.Price, &frame.BorderStyle, &frame.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan frame: %w", err)
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
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM frames`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count frames: %w", err)
	}
	return count, nil
}

// ReplaceAll replaces the whole collection inside one transaction.
func (r *frameRepository) ReplaceAll(ctx context.Context, frames []*domain.Frame) error {
	return r.db.WithTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM frames`); err != nil {
			return fmt.Errorf("failed to clear frames: %w", err)
		}

		insert := `
			INSERT INTO frames (id, name, price, border_style, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		for _, frame := range frames {
			if _, err := tx.Exec(ctx, insert,
				frame.ID, frame.Name, frame.Price, frame.BorderStyle, frame.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert frame %s: %w", frame.ID, err)
			}
		}
		return nil
	})
}
