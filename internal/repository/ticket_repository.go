package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tcheflux/helpdesk/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByNro(ctx context.Context, nro int64) (*domain.Ticket, error)
	// Claim atomically moves an Open ticket to Em Andamento and assigns
	// the agent. Returns false when no row matched, either because the
	// ticket does not exist or because it is no longer Open.
	Claim(ctx context.Context, nro, agentID int64) (bool, error)
	UpdateStatus(ctx context.Context, nro int64, status domain.TicketStatus) error
	// Touch bumps dataatualizacao, used when a comment is appended.
	Touch(ctx context.Context, nro int64) error
	ListByRequester(ctx context.Context, requesterID int64) ([]domain.TicketListRow, error)
	ListByDepartment(ctx context.Context, codDepto int64, statuses []domain.TicketStatus) ([]domain.TicketListRow, error)
	ListByAgent(ctx context.Context, agentID int64) ([]domain.TicketListRow, error)
	GetDetail(ctx context.Context, nro int64) (*domain.TicketDetail, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO ticket (titulo, descricao, idsolicitante, coddepto, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING nro, datainicio, dataatualizacao`
	return r.pool.QueryRow(ctx, query,
		ticket.Titulo,
		ticket.Descricao,
		ticket.IDSolicitante,
		ticket.CodDepto,
		ticket.Status,
	).Scan(&ticket.Nro, &ticket.DataInicio, &ticket.DataAtualizacao)
}

func (r *ticketRepository) GetByNro(ctx context.Context, nro int64) (*domain.Ticket, error) {
	const query = `
        SELECT nro, titulo, descricao, idsolicitante, idatendente, coddepto, status, datainicio, dataatualizacao
        FROM ticket WHERE nro=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, nro).Scan(
		&ticket.Nro,
		&ticket.Titulo,
		&ticket.Descricao,
		&ticket.IDSolicitante,
		&ticket.IDAtendente,
		&ticket.CodDepto,
		&ticket.Status,
		&ticket.DataInicio,
		&ticket.DataAtualizacao,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Claim(ctx context.Context, nro, agentID int64) (bool, error) {
	const query = `
        UPDATE ticket
        SET status=$1, idatendente=$2, dataatualizacao=NOW()
        WHERE nro=$3 AND status=$4`
	cmd, err := r.pool.Exec(ctx, query,
		domain.TicketStatusInProgress,
		agentID,
		nro,
		domain.TicketStatusOpen,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, nro int64, status domain.TicketStatus) error {
	const query = `UPDATE ticket SET status=$1, dataatualizacao=NOW() WHERE nro=$2`
	cmd, err := r.pool.Exec(ctx, query, status, nro)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Touch(ctx context.Context, nro int64) error {
	const query = `UPDATE ticket SET dataatualizacao=NOW() WHERE nro=$1`
	cmd, err := r.pool.Exec(ctx, query, nro)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const listBase = `
        SELECT t.nro, t.titulo, t.status, t.datainicio, t.dataatualizacao, d.areas
        FROM ticket t
        JOIN departamento d ON d.coddepto = t.coddepto`

func (r *ticketRepository) ListByRequester(ctx context.Context, requesterID int64) ([]domain.TicketListRow, error) {
	query := listBase + ` WHERE t.idsolicitante=$1 ORDER BY t.dataatualizacao DESC`
	return r.list(ctx, query, requesterID)
}

func (r *ticketRepository) ListByDepartment(ctx context.Context, codDepto int64, statuses []domain.TicketStatus) ([]domain.TicketListRow, error) {
	args := []any{codDepto}
	clause := "t.coddepto=$1"
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clause += fmt.Sprintf(" AND t.status IN (%s)", strings.Join(placeholders, ","))
	}
	query := fmt.Sprintf("%s WHERE %s ORDER BY t.datainicio ASC", listBase, clause)
	return r.list(ctx, query, args...)
}

func (r *ticketRepository) ListByAgent(ctx context.Context, agentID int64) ([]domain.TicketListRow, error) {
	query := listBase + ` WHERE t.idatendente=$1 ORDER BY t.dataatualizacao DESC`
	return r.list(ctx, query, agentID)
}

func (r *ticketRepository) list(ctx context.Context, query string, args ...any) ([]domain.TicketListRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketListRow
	for rows.Next() {
		var row domain.TicketListRow
		if err := rows.Scan(
			&row.Nro,
			&row.Titulo,
			&row.Status,
			&row.DataInicio,
			&row.DataAtualizacao,
			&row.DepartamentoArea,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *ticketRepository) GetDetail(ctx context.Context, nro int64) (*domain.TicketDetail, error) {
	const query = `
        SELECT t.nro, t.titulo, t.descricao, t.idsolicitante, t.idatendente, t.coddepto,
               t.status, t.datainicio, t.dataatualizacao,
               s.nomecompleto, s.email, a.nomecompleto, a.email, d.areas
        FROM ticket t
        JOIN usuario s ON s.idusuario = t.idsolicitante
        LEFT JOIN usuario a ON a.idusuario = t.idatendente
        JOIN departamento d ON d.coddepto = t.coddepto
        WHERE t.nro=$1`
	var detail domain.TicketDetail
	if err := r.pool.QueryRow(ctx, query, nro).Scan(
		&detail.Nro,
		&detail.Titulo,
		&detail.Descricao,
		&detail.IDSolicitante,
		&detail.IDAtendente,
		&detail.CodDepto,
		&detail.Status,
		&detail.DataInicio,
		&detail.DataAtualizacao,
		&detail.SolicitanteNome,
		&detail.SolicitanteEmail,
		&detail.AtendenteNome,
		&detail.AtendenteEmail,
		&detail.DepartamentoArea,
	); err != nil {
		return nil, err
	}
	return &detail, nil
}
