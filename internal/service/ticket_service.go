package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tcheflux/helpdesk/internal/domain"
	"github.com/tcheflux/helpdesk/internal/events"
	"github.com/tcheflux/helpdesk/internal/repository"
	apperrors "github.com/tcheflux/helpdesk/pkg/util"
)

// TicketService owns the ticket lifecycle: creation, claim, comments,
// status transitions and the read projections.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	directory  AreaResolver
	dispatcher events.Dispatcher
	slaWindow  time.Duration
}

// TicketDependencies bundles the collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	Directory   AreaResolver
	Dispatcher  events.Dispatcher
	SLAWindow   time.Duration
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	window := deps.SLAWindow
	if window <= 0 {
		window = domain.DefaultSLAWindow
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		directory:  deps.Directory,
		dispatcher: deps.Dispatcher,
		slaWindow:  window,
	}
}

// TicketCreateInput describes the creation payload.
type TicketCreateInput struct {
	Titulo           string
	Descricao        string
	DepartamentoArea string
}

// TicketOverview is a list row with the derived SLA report attached.
type TicketOverview struct {
	domain.TicketListRow
	SLA domain.SLAReport
}

// TicketView is the joined detail with rendered description and SLA.
type TicketView struct {
	domain.TicketDetail
	SLA domain.SLAReport
}

// Create opens a new ticket for the requester. Every ticket starts Aberto
// with no agent assigned.
func (s *TicketService) Create(ctx context.Context, requester domain.Identity, in TicketCreateInput) (*domain.Ticket, error) {
	titulo := strings.TrimSpace(in.Titulo)
	descricao := strings.TrimSpace(in.Descricao)
	area := strings.TrimSpace(in.DepartamentoArea)
	if titulo == "" || descricao == "" || area == "" {
		return nil, apperrors.NewValidationError(
			"Campos obrigatórios (Título, Descrição, Departamento de Destino) não foram preenchidos.", nil)
	}

	codDepto, err := s.directory.Resolve(ctx, area)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Titulo:        titulo,
		Descricao:     descricao,
		IDSolicitante: requester.ID,
		CodDepto:      codDepto,
		Status:        domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketCreated,
		TicketNro: ticket.Nro,
		Actor:     actorFrom(requester),
		Payload: events.TicketCreatedPayload{
			CodDepto: ticket.CodDepto,
			Titulo:   ticket.Titulo,
		},
	})
	return ticket, nil
}

// Claim assigns an Open ticket to the calling agent. The conditional
// update is atomic, so concurrent claims resolve to a single winner.
func (s *TicketService) Claim(ctx context.Context, agent domain.Identity, nro int64) (*domain.Ticket, error) {
	if agent.Tipo != domain.RoleAgent {
		return nil, apperrors.NewForbidden("apenas atendentes podem assumir tickets")
	}

	claimed, err := s.tickets.Claim(ctx, nro, agent.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Zero rows matched: the ticket is either absent or not Open.
		if _, err := s.tickets.GetByNro(ctx, nro); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("ticket", map[string]any{"nro": nro})
			}
			return nil, err
		}
		return nil, apperrors.NewInvalidTransition("ticket não está aberto e não pode ser assumido")
	}

	ticket, err := s.tickets.GetByNro(ctx, nro)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketClaimed,
		TicketNro: nro,
		Actor:     actorFrom(agent),
		Payload:   events.TicketClaimedPayload{IDAtendente: agent.ID},
	})
	return ticket, nil
}

// AppendComment adds a comment block to the ticket conversation. Any
// authenticated caller may comment; the body only ever grows.
func (s *TicketService) AppendComment(ctx context.Context, author domain.Identity, nro int64, texto string) (*domain.Ticket, error) {
	texto = strings.TrimSpace(texto)
	if texto == "" {
		return nil, apperrors.NewValidationError("comentário não pode ser vazio", nil)
	}

	ticket, err := s.tickets.GetByNro(ctx, nro)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"nro": nro})
		}
		return nil, err
	}

	comment := &domain.Comment{
		TicketNro:  ticket.Nro,
		AuthorID:   author.ID,
		AuthorNome: author.Nome,
		AuthorTipo: author.Tipo,
		Texto:      texto,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.tickets.Touch(ctx, ticket.Nro); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketCommentAdded,
		TicketNro: ticket.Nro,
		Actor:     actorFrom(author),
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			TextPreview: textPreview(texto, 120),
		},
	})
	return s.renderedTicket(ctx, ticket.Nro)
}

// SetStatus applies a status transition under the per-role authorization
// rules. An optional comment rides along in the same update.
func (s *TicketService) SetStatus(ctx context.Context, actor domain.Identity, nro int64, newStatus domain.TicketStatus, comentario string) (*domain.Ticket, error) {
	if !newStatus.Settable() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("status inválido: %q", newStatus), nil)
	}

	ticket, err := s.tickets.GetByNro(ctx, nro)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"nro": nro})
		}
		return nil, err
	}

	switch actor.Tipo {
	case domain.RoleAgent:
		// No further restriction for agents.
	case domain.RoleRequester:
		if ticket.IDSolicitante != actor.ID {
			return nil, apperrors.NewForbidden("apenas o solicitante do ticket pode alterá-lo")
		}
		if !domain.RequesterMaySet(ticket.Status, newStatus) {
			return nil, apperrors.NewForbidden("solicitantes só podem fechar ou reabrir tickets resolvidos")
		}
	default:
		return nil, apperrors.NewForbidden("perfil sem permissão para alterar status")
	}

	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticket.Nro, newStatus); err != nil {
		return nil, err
	}

	comentario = strings.TrimSpace(comentario)
	if comentario != "" {
		comment := &domain.Comment{
			TicketNro:  ticket.Nro,
			AuthorID:   actor.ID,
			AuthorNome: actor.Nome,
			AuthorTipo: actor.Tipo,
			Texto:      fmt.Sprintf("(%s) atualizou o status para: %s - %s", actor.Tipo, newStatus, comentario),
		}
		if err := s.comments.Create(ctx, comment); err != nil {
			return nil, err
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketStatusChanged,
		TicketNro: ticket.Nro,
		Actor:     actorFrom(actor),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   comentario,
		},
	})
	return s.renderedTicket(ctx, ticket.Nro)
}

// ListMine returns the requester's tickets with derived SLA.
func (s *TicketService) ListMine(ctx context.Context, caller domain.Identity) ([]TicketOverview, error) {
	rows, err := s.tickets.ListByRequester(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return s.withSLA(rows), nil
}

// ListDepartmentQueue returns the open workload of the agent's department.
func (s *TicketService) ListDepartmentQueue(ctx context.Context, caller domain.Identity) ([]TicketOverview, error) {
	if caller.Tipo != domain.RoleAgent || caller.CodDepto == nil {
		return nil, apperrors.NewForbidden("apenas atendentes com departamento podem ver esta fila")
	}
	rows, err := s.tickets.ListByDepartment(ctx, *caller.CodDepto, domain.DepartmentQueueStatuses)
	if err != nil {
		return nil, err
	}
	return s.withSLA(rows), nil
}

// ListAssigned returns tickets assigned to the calling agent.
func (s *TicketService) ListAssigned(ctx context.Context, caller domain.Identity) ([]TicketOverview, error) {
	if caller.Tipo != domain.RoleAgent {
		return nil, apperrors.NewForbidden("apenas atendentes possuem tickets atribuídos")
	}
	rows, err := s.tickets.ListByAgent(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return s.withSLA(rows), nil
}

// GetDetail returns the joined ticket view with rendered description.
// Action-level authorization is a presentation concern; any authenticated
// caller may read a ticket.
func (s *TicketService) GetDetail(ctx context.Context, nro int64) (*TicketView, error) {
	detail, err := s.tickets.GetDetail(ctx, nro)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"nro": nro})
		}
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, nro)
	if err != nil {
		return nil, err
	}
	detail.Descricao = domain.RenderDescricao(detail.Descricao, comments)

	return &TicketView{
		TicketDetail: *detail,
		SLA:          domain.EvaluateSLA(detail.Status, detail.DataInicio, detail.DataAtualizacao, time.Now(), s.slaWindow),
	}, nil
}

func (s *TicketService) withSLA(rows []domain.TicketListRow) []TicketOverview {
	now := time.Now()
	result := make([]TicketOverview, 0, len(rows))
	for _, row := range rows {
		result = append(result, TicketOverview{
			TicketListRow: row,
			SLA:           domain.EvaluateSLA(row.Status, row.DataInicio, row.DataAtualizacao, now, s.slaWindow),
		})
	}
	return result
}

// renderedTicket re-reads the ticket and folds the comment log into its
// description for the response body.
func (s *TicketService) renderedTicket(ctx context.Context, nro int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByNro(ctx, nro)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, nro)
	if err != nil {
		return nil, err
	}
	ticket.Descricao = domain.RenderDescricao(ticket.Descricao, comments)
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorFrom(identity domain.Identity) events.Actor {
	return events.Actor{UserID: identity.ID, Role: identity.Tipo}
}

func textPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
