package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/adarsh180/accidentaware/internal/usecase"
)

var ErrEmailTaken = errors.New("email already registered")

type MySQLUserRepo struct{ db *sql.DB }

func NewMySQLUserRepo(db *sql.DB) *MySQLUserRepo { return &MySQLUserRepo{db: db} }

func (r *MySQLUserRepo) Create(ctx context.Context, u *usecase.UserRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id,email,name,password_hash,created_at)
VALUES (?,?,?,?,?)`, u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt)
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 { // duplicate key
		return ErrEmailTaken
	}
	return err
}

// GetByEmail returns nil, nil for an unknown email.
func (r *MySQLUserRepo) GetByEmail(ctx context.Context, email string) (*usecase.UserRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,email,name,password_hash,created_at FROM users WHERE email=?`, email)
	var u usecase.UserRecord
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

var _ usecase.UserRepo = (*MySQLUserRepo)(nil)
