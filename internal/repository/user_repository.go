package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/prasetyow/galaxytix/internal/model"
	"github.com/prasetyow/galaxytix/internal/utils"
)

// UserRepo provides access to the `users` table and implements the
// identity operations: registration, credential verification and the
// idempotent admin bootstrap.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a bcrypt-hashed password and returns its ID.
// A duplicate username maps MySQL error 1062 to ErrUsernameExists.
func (r *UserRepo) Create(ctx context.Context, username, password, role string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, role) VALUES (?,?,?)",
		username, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by its trimmed username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.TrimSpace(username)
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,role,created_at FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,role,created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// VerifyCredentials returns the user matching username/password. Unknown
// usernames and wrong passwords both yield ErrInvalidCredentials so the
// response does not leak which part was wrong.
func (r *UserRepo) VerifyCredentials(ctx context.Context, username, password string) (model.User, error) {
	u, err := r.GetByUsername(ctx, username)
	if err != nil {
		if err == ErrNotFound {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// EnsureAdmin seeds the administrator account on first run. It is
// idempotent: when the username already exists, nothing is changed, though
// a role mismatch on the existing account is logged since that admin login
// would silently lack its privileges.
func (r *UserRepo) EnsureAdmin(ctx context.Context, username, password string, cost int) error {
	if u, err := r.GetByUsername(ctx, username); err == nil {
		if !u.IsAdmin() {
			logrus.WithField("username", username).Warn("configured admin username exists without the admin role")
		}
		return nil
	} else if err != ErrNotFound {
		return err
	}
	id, err := r.Create(ctx, username, password, model.RoleAdmin, cost)
	if err != nil {
		// A concurrent boot may have seeded it between the check and the insert.
		if err == ErrUsernameExists {
			return nil
		}
		return err
	}
	logrus.WithField("user_id", id).Info("seeded admin account")
	return nil
}
