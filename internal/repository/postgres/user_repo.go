package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

// userRepository implements repository.UserRepository for PostgreSQL.
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, username, password_hash, balance, level,
	is_verified, is_banned, is_admin, owned_games, owned_frames, friends,
	active_frame, created_at, updated_at`

// Create persists a new user.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash,
		user.Balance, user.Level, user.IsVerified, user.IsBanned, user.IsAdmin,
		user.OwnedGames, user.OwnedFrames, user.Friends,
		user.ActiveFrame, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if taken := uniqueViolation(err); taken != nil {
			return taken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by id.
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUserRow(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUserRow(r.db.Pool.QueryRow(ctx, query, email))
}

// GetByUsername retrieves a user by handle, case-insensitively.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1)`
	return scanUserRow(r.db.Pool.QueryRow(ctx, query, username))
}

// Update replaces the stored record for the user's id.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = $1, username = $2, password_hash = $3, balance = $4, level = $5,
		    is_verified = $6, is_banned = $7, is_admin = $8, owned_games = $9,
		    owned_frames = $10, friends = $11, active_frame = $12, updated_at = $13
		WHERE id = $14
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Balance, user.Level,
		user.IsVerified, user.IsBanned, user.IsAdmin, user.OwnedGames,
		user.OwnedFrames, user.Friends, user.ActiveFrame, user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if taken := uniqueViolation(err); taken != nil {
			return taken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns users with pagination and optional search filter.
func (r *userRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.User], error) {
	where := ""
	args := []interface{}{}
	if opts.Search != "" {
		where = ` WHERE username ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+opts.Search+"%")
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+userColumns+` FROM users`+where+`
		ORDER BY created_at ASC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users, err := scanUserRows(rows)
	if err != nil {
		return nil, err
	}

	return &repository.ListResult[domain.User]{
		Items:  users,
		Total:  total,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

// ListAll returns every user in creation order.
func (r *userRepository) ListAll(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	return scanUserRows(rows)
}

// ExistsByEmail checks case-insensitively for an account with the email.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// ExistsByUsername checks case-insensitively for an account with the handle.
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

// ReplaceAll replaces the whole collection inside one transaction.
func (r *userRepository) ReplaceAll(ctx context.Context, users []*domain.User) error {
	return r.db.WithTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM users`); err != nil {
			return fmt.Errorf("failed to clear users: %w", err)
		}

		insert := `
			INSERT INTO users (` + userColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`
		for _, user := range users {
			if _, err := tx.Exec(ctx, insert,
				user.ID, user.Email, user.Username, user.PasswordHash,
				user.Balance, user.Level, user.IsVerified, user.IsBanned, user.IsAdmin,
				user.OwnedGames, user.OwnedFrames, user.Friends,
				user.ActiveFrame, user.CreatedAt, user.UpdatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert user %s: %w", user.ID, err)
			}
		}
		return nil
	})
}

// scanUserRow scans a single user row, mapping pgx.ErrNoRows.
func scanUserRow(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash,
		&user.Balance, &user.Level, &user.IsVerified, &user.IsBanned, &user.IsAdmin,
		&user.OwnedGames, &user.OwnedFrames, &user.Friends,
		&user.ActiveFrame, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	normalizeUserSets(user)
	return user, nil
}

// scanUserRows scans every row in the result set.
func scanUserRows(rows pgx.Rows) ([]*domain.User, error) {
	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		err := rows.Scan(
			&user.ID, &user.Email, &user.Username, &user.PasswordHash,
			&user.Balance, &user.Level, &user.IsVerified, &user.IsBanned, &user.IsAdmin,
			&user.OwnedGames, &user.OwnedFrames, &user.Friends,
			&user.ActiveFrame, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		normalizeUserSets(user)
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// normalizeUserSets replaces nil id sets with empty slices so reloaded
// records compare equal to freshly created ones.
func normalizeUserSets(user *domain.User) {
	if user.OwnedGames == nil {
		user.OwnedGames = []string{}
	}
	if user.OwnedFrames == nil {
		user.OwnedFrames = []string{}
	}
	if user.Friends == nil {
		user.Friends = []string{}
	}
}

// uniqueViolation maps a unique constraint error to the matching domain
// error, or returns nil if the error is something else.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	if pgErr.ConstraintName == "idx_users_username" {
		return domain.ErrUsernameTaken
	}
	return domain.ErrEmailTaken
}
