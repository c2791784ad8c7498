package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iliyamo/auth-service/internal/domain"
)

// UserRepo persists users in MySQL. Uniqueness of username and email is
// pre-checked here for friendly errors; the unique indexes on the users
// table (case-insensitive collation) remain the authoritative backstop
// under races.
type UserRepo struct {
	db  *sql.DB
	log *slog.Logger
}

func NewUserRepo(db *sql.DB, log *slog.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

const userColumns = "id, username, email, password_hash"

// Add inserts a new user. Fails with domain.ErrUserAlreadyExists when the
// email or username is already taken.
func (r *UserRepo) Add(ctx context.Context, user *domain.User) error {
	if taken, err := r.ExistsByEmail(ctx, user.Email); err != nil {
		return err
	} else if taken {
		return domain.ErrUserAlreadyExists
	}
	if taken, err := r.existsByUsername(ctx, user.Username.Value()); err != nil {
		return err
	} else if taken {
		return domain.ErrUserAlreadyExists
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash) VALUES (?,?,?,?)",
		user.ID.Value(), user.Username.Value(), user.Email.Value(), user.Password.Value())
	if err != nil {
		if isDuplicateKey(err) {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	r.log.Info("user created", "user_id", user.ID.Value(), "username", user.Username.Value())
	return nil
}

// Save updates an existing user. Fails with domain.ErrUserNotFound when the
// id is unknown and with domain.ErrUserAlreadyExists when the new email or
// username collides with a different user's record.
func (r *UserRepo) Save(ctx context.Context, user *domain.User) error {
	if exists, err := r.ExistsByID(ctx, user.ID); err != nil {
		return err
	} else if !exists {
		return domain.ErrUserNotFound
	}

	var collisions int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE (email=? OR LOWER(username)=LOWER(?)) AND id<>?",
		user.Email.Value(), user.Username.Value(), user.ID.Value()).Scan(&collisions)
	if err != nil {
		return fmt.Errorf("check user collision: %w", err)
	}
	if collisions > 0 {
		return domain.ErrUserAlreadyExists
	}

	_, err = r.db.ExecContext(ctx,
		"UPDATE users SET username=?, email=?, password_hash=? WHERE id=?",
		user.Username.Value(), user.Email.Value(), user.Password.Value(), user.ID.Value())
	if err != nil {
		if isDuplicateKey(err) {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	r.log.Info("user updated", "user_id", user.ID.Value())
	return nil
}

// Delete removes a user row. Fails with domain.ErrUserNotFound when absent.
func (r *UserRepo) Delete(ctx context.Context, id domain.ID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id=?", id.Value())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	r.log.Info("user deleted", "user_id", id.Value())
	return nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id.Value())
	return scanUser(row)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email.Value())
	return scanUser(row)
}

// ExistsByID reports whether a user row with the given id exists.
func (r *UserRepo) ExistsByID(ctx context.Context, id domain.ID) (bool, error) {
	return r.exists(ctx, "SELECT 1 FROM users WHERE id=? LIMIT 1", id.Value())
}

// ExistsByEmail reports whether a user row with the given email exists.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email domain.Email) (bool, error) {
	return r.exists(ctx, "SELECT 1 FROM users WHERE email=? LIMIT 1", email.Value())
}

// existsByUsername compares case-insensitively: usernames keep their case
// as values but "alice" and "Alice" occupy the same slot in the store.
func (r *UserRepo) existsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "SELECT 1 FROM users WHERE LOWER(username)=LOWER(?) LIMIT 1", username)
}

func (r *UserRepo) exists(ctx context.Context, query string, arg string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists query: %w", err)
	}
	return true, nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var id, username, email, passwordHash string
	if err := row.Scan(&id, &username, &email, &passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return restoreUser(id, username, email, passwordHash)
}

// restoreUser rebuilds the entity from stored columns. Stored data already
// passed validation at write time, so a failure here means the row was
// edited outside the application.
func restoreUser(id, username, email, passwordHash string) (*domain.User, error) {
	parsedID, err := domain.ParseID(id)
	if err != nil {
		return nil, fmt.Errorf("corrupt user row: %w", err)
	}
	parsedName, err := domain.NewUsername(username)
	if err != nil {
		return nil, fmt.Errorf("corrupt user row: %w", err)
	}
	parsedEmail, err := domain.NewEmail(email)
	if err != nil {
		return nil, fmt.Errorf("corrupt user row: %w", err)
	}
	parsedPassword, err := domain.NewPassword(passwordHash)
	if err != nil {
		return nil, fmt.Errorf("corrupt user row: %w", err)
	}
	return &domain.User{
		ID:       parsedID,
		Username: parsedName,
		Email:    parsedEmail,
		Password: parsedPassword,
	}, nil
}

// MySQL duplicate-key errors carry code 1062.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
