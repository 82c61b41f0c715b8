package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
)

// userRepository implements repository.UserRepository for SQLite.
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new SQLite user repository.
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	ownedGames, err := encodeIDs(user.OwnedGames)
	if err != nil {
		return err
	}
	ownedFrames, err := encodeIDs(user.OwnedFrames)
	if err != nil {
		return err
	}
	friends, err := encodeIDs(user.Friends)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.Balance,
		user.Level,
		boolToInt(user.IsVerified),
		boolToInt(user.IsBanned),
		boolToInt(user.IsAdmin),
		ownedGames,
		ownedFrames,
		friends,
		user.ActiveFrame,
		encodeTime(user.CreatedAt),
		encodeTime(user.UpdatedAt),
	)

	if err != nil {
		if isUniqueViolation(err) {
			if violatedColumn(err) == "username" {
				return domain.ErrUsernameTaken
			}
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by id.
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER(?)`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// GetByUsername retrieves a user by handle, case-insensitively.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER(?)`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

// Update replaces the stored record for the user's id.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = ?, username = ?, password_hash = ?, balance = ?, level = ?,
		    is_verified = ?, is_banned = ?, is_admin = ?, owned_games = ?,
		    owned_frames = ?, friends = ?, active_frame = ?, updated_at = ?
		WHERE id = ?
	`

	ownedGames, err := encodeIDs(user.OwnedGames)
	if err != nil {
		return err
	}
	ownedFrames, err := encodeIDs(user.OwnedFrames)
	if err != nil {
		return err
	}
	friends, err := encodeIDs(user.Friends)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.Balance,
		user.Level,
		boolToInt(user.IsVerified),
		boolToInt(user.IsBanned),
		boolToInt(user.IsAdmin),
		ownedGames,
		ownedFrames,
		friends,
		user.ActiveFrame,
		encodeTime(user.UpdatedAt),
		user.ID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			if violatedColumn(err) == "username" {
				return domain.ErrUsernameTaken
			}
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns users with pagination and optional search filter.
func (r *userRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.User], error) {
	where := ""
	args := []interface{}{}
	if opts.Search != "" {
		where = ` WHERE LOWER(username) LIKE ? OR LOWER(email) LIKE ?`
		pattern := "%" + domain.NormalizeUsername(opts.Search) + "%"
		args = append(args, pattern, pattern)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users` + where + `
		ORDER BY created_at ASC
		LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users, err := r.scanAll(rows)
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
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// ExistsByEmail checks case-insensitively for an account with the email.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE LOWER(email) = LOWER(?)`, email).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// ExistsByUsername checks case-insensitively for an account with the handle.
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE LOWER(username) = LOWER(?)`, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return count > 0, nil
}

// ReplaceAll replaces the whole collection inside one transaction.
func (r *userRepository) ReplaceAll(ctx context.Context, users []*domain.User) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
			return fmt.Errorf("failed to clear users: %w", err)
		}

		insert := `
			INSERT INTO users (` + userColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		for _, user := range users {
			ownedGames, err := encodeIDs(user.OwnedGames)
			if err != nil {
				return err
			}
			ownedFrames, err := encodeIDs(user.OwnedFrames)
			if err != nil {
				return err
			}
			friends, err := encodeIDs(user.Friends)
			if err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx, insert,
				user.ID,
				user.Email,
				user.Username,
				user.PasswordHash,
				user.Balance,
				user.Level,
				boolToInt(user.IsVerified),
				boolToInt(user.IsBanned),
				boolToInt(user.IsAdmin),
				ownedGames,
				ownedFrames,
				friends,
				user.ActiveFrame,
				encodeTime(user.CreatedAt),
				encodeTime(user.UpdatedAt),
			); err != nil {
				return fmt.Errorf("failed to insert user %s: %w", user.ID, err)
			}
		}
		return nil
	})
}

// scanOne scans a single user row.
func (r *userRepository) scanOne(row *sql.Row) (*domain.User, error) {
	user, err := scanUser(row.Scan)
	if err != nil {
		if isNoRows(err) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// scanAll scans every row in the result set.
func (r *userRepository) scanAll(rows *sql.Rows) ([]*domain.User, error) {
	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// scanUser maps one row onto a domain.User using the given scan function.
func scanUser(scan func(dest ...interface{}) error) (*domain.User, error) {
	user := &domain.User{}
	var isVerified, isBanned, isAdmin int
	var ownedGames, ownedFrames, friends string
	var createdAt, updatedAt string

	err := scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.Balance,
		&user.Level,
		&isVerified,
		&isBanned,
		&isAdmin,
		&ownedGames,
		&ownedFrames,
		&friends,
		&user.ActiveFrame,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.IsVerified = isVerified != 0
	user.IsBanned = isBanned != 0
	user.IsAdmin = isAdmin != 0

	if user.OwnedGames, err = decodeIDs(ownedGames); err != nil {
		return nil, err
	}
	if user.OwnedFrames, err = decodeIDs(ownedFrames); err != nil {
		return nil, err
	}
	if user.Friends, err = decodeIDs(friends); err != nil {
		return nil, err
	}
	if user.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if user.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}

	return user, nil
}
