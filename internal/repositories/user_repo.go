package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"zakupBack/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) CreateUser(ctx context.Context, u models.User) (int, error) {
	query := `INSERT INTO users (name, email, password, role) VALUES (?, ?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, query, u.Name, u.Email, u.Password, u.Role)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return 0, models.ErrDuplicateEmail
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	query := `SELECT id, name, email, role, created_at, updated_at FROM users WHERE id = ?`
	var u models.User
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT id, name, email, password, role, created_at, updated_at FROM users WHERE email = ?`
	var u models.User
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) SaveSession(ctx context.Context, s models.Session) error {
	query := `INSERT INTO sessions (user_id, role, refresh_token, expires_at) VALUES (?, ?, ?, ?)
	          ON DUPLICATE KEY UPDATE refresh_token = VALUES(refresh_token), expires_at = VALUES(expires_at)`
	_, err := r.DB.ExecContext(ctx, query, s.UserID, s.Role, s.RefreshToken, s.ExpiresAt)
	return err
}

func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error) {
	query := `SELECT user_id, role, refresh_token, expires_at FROM sessions WHERE refresh_token = ?`
	var s models.Session
	err := r.DB.QueryRowContext(ctx, query, refreshToken).Scan(&s.UserID, &s.Role, &s.RefreshToken, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, nil
	}
	return s, err
}

func (r *UserRepository) DeleteSession(ctx context.Context, userID int) error {
	query := `DELETE FROM sessions WHERE user_id = ?`
	_, err := r.DB.ExecContext(ctx, query, userID)
	return err
}
