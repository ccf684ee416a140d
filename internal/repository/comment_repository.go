package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tcheflux/helpdesk/internal/domain"
)

// CommentRepository manages the append-only ticket comment log.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, nro int64) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO ticket_comentario (nro, idautor, nomeautor, tipoautor, texto)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, datacriacao`
	return r.pool.QueryRow(ctx, query,
		comment.TicketNro,
		comment.AuthorID,
		comment.AuthorNome,
		comment.AuthorTipo,
		comment.Texto,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByTicket(ctx context.Context, nro int64) ([]domain.Comment, error) {
	const query = `
        SELECT id, nro, idautor, nomeautor, tipoautor, texto, datacriacao
        FROM ticket_comentario WHERE nro=$1 ORDER BY datacriacao ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, nro)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketNro,
			&comment.AuthorID,
			&comment.AuthorNome,
			&comment.AuthorTipo,
			&comment.Texto,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}
