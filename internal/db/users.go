package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getUserByEmail = `SELECT id, email, password_hash FROM users WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var i User
	err := q.db.QueryRow(ctx, getUserByEmail, email).Scan(&i.ID, &i.Email, &i.PasswordHash)
	return i, err
}

const createUser = `INSERT INTO users (email, password_hash, role) VALUES ($1, $2, $3)
RETURNING id, email, password_hash`

type CreateUserParams struct {
	Email        string
	PasswordHash string
	Role         string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	var i User
	err := q.db.QueryRow(ctx, createUser, arg.Email, arg.PasswordHash, arg.Role).Scan(&i.ID, &i.Email, &i.PasswordHash)
	return i, err
}

const getUserRole = `SELECT get_user_role($1)`

// GetUserRole returns an invalid Text when the user has no role.
func (q *Queries) GetUserRole(ctx context.Context, userID pgtype.UUID) (pgtype.Text, error) {
	var role pgtype.Text
	err := q.db.QueryRow(ctx, getUserRole, userID).Scan(&role)
	return role, err
}
