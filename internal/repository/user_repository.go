package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tcheflux/helpdesk/internal/domain"
)

// ErrDuplicateEmail signals a unique-constraint violation on usuario.email.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO usuario (nomecompleto, telefone, email, senhahash, tipo, coddepto)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING idusuario, datacriacao`

	err := r.pool.QueryRow(ctx, query,
		user.NomeCompleto,
		user.Telefone,
		user.Email,
		user.SenhaHash,
		user.Tipo,
		user.CodDepto,
	).Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT idusuario, nomecompleto, telefone, email, senhahash, tipo, coddepto, datacriacao
        FROM usuario WHERE idusuario=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT idusuario, nomecompleto, telefone, email, senhahash, tipo, coddepto, datacriacao
        FROM usuario WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.NomeCompleto,
		&user.Telefone,
		&user.Email,
		&user.SenhaHash,
		&user.Tipo,
		&user.CodDepto,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
