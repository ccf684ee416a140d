package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tcheflux/helpdesk/internal/domain"
	"github.com/tcheflux/helpdesk/internal/service"
)

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByNro(ctx context.Context, nro int64) (*domain.Ticket, error) {
	args := m.Called(ctx, nro)
	if ticket, ok := args.Get(0).(*domain.Ticket); ok {
		return ticket, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTicketRepository) Claim(ctx context.Context, nro, agentID int64) (bool, error) {
	args := m.Called(ctx, nro, agentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTicketRepository) UpdateStatus(ctx context.Context, nro int64, status domain.TicketStatus) error {
	args := m.Called(ctx, nro, status)
	return args.Error(0)
}

func (m *MockTicketRepository) Touch(ctx context.Context, nro int64) error {
	args := m.Called(ctx, nro)
	return args.Error(0)
}

func (m *MockTicketRepository) ListByRequester(ctx context.Context, requesterID int64) ([]domain.TicketListRow, error) {
	args := m.Called(ctx, requesterID)
	if rows, ok := args.Get(0).([]domain.TicketListRow); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTicketRepository) ListByDepartment(ctx context.Context, codDepto int64, statuses []domain.TicketStatus) ([]domain.TicketListRow, error) {
	args := m.Called(ctx, codDepto, statuses)
	if rows, ok := args.Get(0).([]domain.TicketListRow); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTicketRepository) ListByAgent(ctx context.Context, agentID int64) ([]domain.TicketListRow, error) {
	args := m.Called(ctx, agentID)
	if rows, ok := args.Get(0).([]domain.TicketListRow); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTicketRepository) GetDetail(ctx context.Context, nro int64) (*domain.TicketDetail, error) {
	args := m.Called(ctx, nro)
	if detail, ok := args.Get(0).(*domain.TicketDetail); ok {
		return detail, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) ListByTicket(ctx context.Context, nro int64) ([]domain.Comment, error) {
	args := m.Called(ctx, nro)
	if comments, ok := args.Get(0).([]domain.Comment); ok {
		return comments, args.Error(1)
	}
	return nil, args.Error(1)
}

func newTicketService(tickets *MockTicketRepository, comments *MockCommentRepository, directory *MockAreaResolver) *service.TicketService {
	return service.NewTicketService(service.TicketDependencies{
		TicketRepo:  tickets,
		CommentRepo: comments,
		Directory:   directory,
		SLAWindow:   48 * time.Hour,
	})
}

var (
	requester = domain.Identity{ID: 1, Nome: "Ana Silva", Tipo: domain.RoleRequester, Email: "ana@example.com"}
	agent     = func() domain.Identity {
		depto := int64(5)
		return domain.Identity{ID: 2, Nome: "Carlos Pereira", Tipo: domain.RoleAgent, Email: "carlos@example.com", CodDepto: &depto}
	}()
)

func TestCreateTicketStartsOpenWithoutAgent(t *testing.T) {
	tickets := new(MockTicketRepository)
	directory := new(MockAreaResolver)
	svc := newTicketService(tickets, new(MockCommentRepository), directory)

	directory.On("Resolve", mock.Anything, "TI").Return(int64(5), nil)
	tickets.On("Create", mock.Anything, mock.AnythingOfType("*domain.Ticket")).
		Run(func(args mock.Arguments) {
			ticket := args.Get(1).(*domain.Ticket)
			ticket.Nro = 100
			ticket.DataInicio = time.Now()
			ticket.DataAtualizacao = ticket.DataInicio
		}).
		Return(nil)

	ticket, err := svc.Create(context.Background(), requester, service.TicketCreateInput{
		Titulo:           "Impressora parada",
		Descricao:        "A impressora do 2º andar não liga.",
		DepartamentoArea: "TI",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Nil(t, ticket.IDAtendente)
	assert.Equal(t, int64(1), ticket.IDSolicitante)
	assert.Equal(t, int64(5), ticket.CodDepto)
	tickets.AssertExpectations(t)
}

func TestCreateTicketRequiresAllFields(t *testing.T) {
	svc := newTicketService(new(MockTicketRepository), new(MockCommentRepository), new(MockAreaResolver))

	_, err := svc.Create(context.Background(), requester, service.TicketCreateInput{
		Titulo:    "Sem departamento",
		Descricao: "faltou a área",
	})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))

	_, err = svc.Create(context.Background(), requester, service.TicketCreateInput{
		Titulo:           "   ",
		Descricao:        "título em branco",
		DepartamentoArea: "TI",
	})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestClaimOpenTicket(t *testing.T) {
	tickets := new(MockTicketRepository)
	svc := newTicketService(tickets, new(MockCommentRepository), new(MockAreaResolver))

	agentID := agent.ID
	tickets.On("Claim", mock.Anything, int64(100), agentID).Return(true, nil)
	tickets.On("GetByNro", mock.Anything, int64(100)).Return(&domain.Ticket{
		Nro:           100,
		Status:        domain.TicketStatusInProgress,
		IDAtendente:   &agentID,
		IDSolicitante: 1,
	}, nil)

	ticket, err := svc.Claim(context.Background(), agent, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
	require.NotNil(t, ticket.IDAtendente)
	assert.Equal(t, agentID, *ticket.IDAtendente)
	tickets.AssertExpectations(t)
}

func TestClaimTwiceFailsWithInvalidTransition(t *testing.T) {
	tickets := new(MockTicketRepository)
	svc := newTicketService(tickets, new(MockCommentRepository), new(MockAreaResolver))

	tickets.On("Claim", mock.Anything, int64(100), agent.ID).Return(false, nil)
	tickets.On("GetByNro", mock.Anything, int64(100)).Return(&domain.Ticket{
		Nro:    100,
		Status: domain.TicketStatusInProgress,
	}, nil)

	_, err := svc.Claim(context.Background(), agent, 100)
	assert.Equal(t, "INVALID_TRANSITION", domainCode(t, err))
}

func TestClaimMissingTicket(t *testing.T) {
	tickets := new(MockTicketRepository)
	svc := newTicketService(tickets, new(MockCommentRepository), new(MockAreaResolver))

	tickets.On("Claim", mock.Anything, int64(999), agent.ID).Return(false, nil)
	tickets.On("GetByNro", mock.Anything, int64(999)).Return(nil, pgx.ErrNoRows)

	_, err := svc.Claim(context.Background(), agent, 999)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestClaimByRequesterForbidden(t *testing.T) {
	svc := newTicketService(new(MockTicketRepository), new(MockCommentRepository), new(MockAreaResolver))

	_, err := svc.Claim(context.Background(), requester, 100)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestAppendCommentRejectsBlank(t *testing.T) {
	svc := newTicketService(new(MockTicketRepository), new(MockCommentRepository), new(MockAreaResolver))

	_, err := svc.AppendComment(context.Background(), requester, 100, "   ")
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestAppendCommentGrowsDescription(t *testing.T) {
	tickets := new(MockTicketRepository)
	comments := new(MockCommentRepository)
	svc := newTicketService(tickets, comments, new(MockAreaResolver))

	stored := &domain.Ticket{
		Nro:           100,
		Titulo:        "Impressora parada",
		Descricao:     "A impressora do 2º andar não liga.",
		IDSolicitante: 1,
		Status:        domain.TicketStatusOpen,
	}
	tickets.On("GetByNro", mock.Anything, int64(100)).Return(stored, nil)
	tickets.On("Touch", mock.Anything, int64(100)).Return(nil)
	comments.On("Create", mock.Anything, mock.AnythingOfType("*domain.Comment")).
		Run(func(args mock.Arguments) {
			comment := args.Get(1).(*domain.Comment)
			comment.ID = 1
			comment.CreatedAt = time.Now()
		}).
		Return(nil)
	comments.On("ListByTicket", mock.Anything, int64(100)).Return([]domain.Comment{
		{
			ID:         1,
			TicketNro:  100,
			AuthorID:   requester.ID,
			AuthorNome: requester.Nome,
			AuthorTipo: requester.Tipo,
			Texto:      "Já tentei reiniciar, sem sucesso.",
			CreatedAt:  time.Now(),
		},
	}, nil)

	ticket, err := svc.AppendComment(context.Background(), requester, 100, "Já tentei reiniciar, sem sucesso.")
	require.NoError(t, err)
	assert.Greater(t, len(ticket.Descricao), len("A impressora do 2º andar não liga."))
	assert.Contains(t, ticket.Descricao, "Ana Silva (Solicitante)")
	assert.Contains(t, ticket.Descricao, "Já tentei reiniciar, sem sucesso.")
	tickets.AssertExpectations(t)
	comments.AssertExpectations(t)
}

func TestSetStatusRejectsUnknownTarget(t *testing.T) {
	svc := newTicketService(new(MockTicketRepository), new(MockCommentRepository), new(MockAreaResolver))

	_, err := svc.SetStatus(context.Background(), agent, 100, domain.TicketStatus("Cancelado"), "")
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))

	_, err = svc.SetStatus(context.Background(), agent, 100, domain.TicketStatusOpen, "")
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestSetStatusRequesterClosesResolvedTicket(t *testing.T) {
	tickets := new(MockTicketRepository)
	comments := new(MockCommentRepository)
	svc := newTicketService(tickets, comments, new(MockAreaResolver))

	stored := &domain.Ticket{
		Nro:           100,
		Descricao:     "corpo",
		IDSolicitante: requester.ID,
		Status:        domain.TicketStatusResolved,
	}
	tickets.On("GetByNro", mock.Anything, int64(100)).Return(stored, nil)
	tickets.On("UpdateStatus", mock.Anything, int64(100), domain.TicketStatusClosed).Return(nil)
	comments.On("ListByTicket", mock.Anything, int64(100)).Return([]domain.Comment{}, nil)

	ticket, err := svc.SetStatus(context.Background(), requester, 100, domain.TicketStatusClosed, "")
	require.NoError(t, err)
	assert.Equal(t, int64(100), ticket.Nro)
	tickets.AssertExpectations(t)
}

func TestSetStatusRequesterReopensToPendingClient(t *testing.T) {
	tickets := new(MockTicketRepository)
	comments := new(MockCommentRepository)
	svc := newTicketService(tickets, comments, new(MockAreaResolver))

	stored := &domain.Ticket{
		Nro:           100,
		Descricao:     "corpo",
		IDSolicitante: requester.ID,
		Status:        domain.TicketStatusResolved,
	}
	tickets.On("GetByNro", mock.Anything, int64(100)).Return(stored, nil)
	tickets.On("UpdateStatus", mock.Anything, int64(100), domain.TicketStatusPendingClient).Return(nil)
	comments.On("ListByTicket", mock.Anything, int64(100)).Return([]domain.Comment{}, nil)

	_, err := svc.SetStatus(context.Background(), requester, 100, domain.TicketStatusPendingClient, "")
	require.NoError(t, err)
	tickets.AssertExpectations(t)
}

func TestSetStatusRequesterForbiddenCases(t *testing.T) {
	tickets := new(MockTicketRepository)
	svc := newTicketService(tickets, new(MockCommentRepository), new(MockAreaResolver))

	// Not the owner.
	tickets.On("GetByNro", mock.Anything, int64(100)).Return(&domain.Ticket{
		Nro:           100,
		IDSolicitante: 999,
		Status:        domain.TicketStatusResolved,
	}, nil).Once()
	_, err := svc.SetStatus(context.Background(), requester, 100, domain.TicketStatusClosed, "")
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	// Owns the ticket but it is not resolved yet.
	tickets.On("GetByNro", mock.Anything, int64(100)).Return(&domain.Ticket{
		Nro:           100,
		IDSolicitante: requester.ID,
		Status:        domain.TicketStatusInProgress,
	}, nil).Once()
	_, err = svc.SetStatus(context.Background(), requester, 100, domain.TicketStatusClosed, "")
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	// Resolved, but the target is not a reaction to the resolution.
	tickets.On("GetByNro", mock.Anything, int64(100)).Return(&domain.Ticket{
		Nro:           100,
		IDSolicitante: requester.ID,
		Status:        domain.TicketStatusResolved,
	}, nil).Once()
	_, err = svc.SetStatus(context.Background(), requester, 100, domain.TicketStatusInProgress, "")
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestSetStatusAgentWithComment(t *testing.T) {
	tickets := new(MockTicketRepository)
	comments := new(MockCommentRepository)
	svc := newTicketService(tickets, comments, new(MockAreaResolver))

	stored := &domain.Ticket{
		Nro:           100,
		Descricao:     "corpo",
		IDSolicitante: requester.ID,
		Status:        domain.TicketStatusInProgress,
	}
	tickets.On("GetByNro", mock.Anything, int64(100)).Return(stored, nil)
	tickets.On("UpdateStatus", mock.Anything, int64(100), domain.TicketStatusResolved).Return(nil)
	comments.On("Create", mock.Anything, mock.MatchedBy(func(comment *domain.Comment) bool {
		return strings.Contains(comment.Texto, "(Atendente) atualizou o status para: Resolvido") &&
			strings.Contains(comment.Texto, "Troquei o toner.")
	})).Return(nil)
	comments.On("ListByTicket", mock.Anything, int64(100)).Return([]domain.Comment{}, nil)

	_, err := svc.SetStatus(context.Background(), agent, 100, domain.TicketStatusResolved, "Troquei o toner.")
	require.NoError(t, err)
	tickets.AssertExpectations(t)
	comments.AssertExpectations(t)
}

func TestListDepartmentQueueRequiresAgentWithDepartment(t *testing.T) {
	svc := newTicketService(new(MockTicketRepository), new(MockCommentRepository), new(MockAreaResolver))

	_, err := svc.ListDepartmentQueue(context.Background(), requester)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	agentSemDepto := domain.Identity{ID: 3, Tipo: domain.RoleAgent}
	_, err = svc.ListDepartmentQueue(context.Background(), agentSemDepto)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestListDepartmentQueueFiltersStatuses(t *testing.T) {
	tickets := new(MockTicketRepository)
	svc := newTicketService(tickets, new(MockCommentRepository), new(MockAreaResolver))

	tickets.On("ListByDepartment", mock.Anything, int64(5), domain.DepartmentQueueStatuses).
		Return([]domain.TicketListRow{
			{Nro: 100, Status: domain.TicketStatusOpen, DataInicio: time.Now().Add(-50 * time.Hour), DataAtualizacao: time.Now()},
		}, nil)

	rows, err := svc.ListDepartmentQueue(context.Background(), agent)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].SLA.Atrasado)
	tickets.AssertExpectations(t)
}

func TestListAssignedRequiresAgent(t *testing.T) {
	svc := newTicketService(new(MockTicketRepository), new(MockCommentRepository), new(MockAreaResolver))

	_, err := svc.ListAssigned(context.Background(), requester)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestGetDetailRendersComments(t *testing.T) {
	tickets := new(MockTicketRepository)
	comments := new(MockCommentRepository)
	svc := newTicketService(tickets, comments, new(MockAreaResolver))

	atendenteNome := "Carlos Pereira"
	tickets.On("GetDetail", mock.Anything, int64(100)).Return(&domain.TicketDetail{
		Ticket: domain.Ticket{
			Nro:             100,
			Descricao:       "corpo original",
			Status:          domain.TicketStatusResolved,
			DataInicio:      time.Now().Add(-3 * time.Hour),
			DataAtualizacao: time.Now(),
		},
		SolicitanteNome:  "Ana Silva",
		SolicitanteEmail: "ana@example.com",
		AtendenteNome:    &atendenteNome,
		DepartamentoArea: "TI",
	}, nil)
	comments.On("ListByTicket", mock.Anything, int64(100)).Return([]domain.Comment{
		{AuthorNome: "Carlos Pereira", AuthorTipo: domain.RoleAgent, Texto: "Resolvido.", CreatedAt: time.Now()},
	}, nil)

	view, err := svc.GetDetail(context.Background(), 100)
	require.NoError(t, err)
	assert.Contains(t, view.Descricao, "corpo original")
	assert.Contains(t, view.Descricao, "Carlos Pereira (Atendente): Resolvido.")
	assert.Equal(t, "TI", view.DepartamentoArea)
	assert.False(t, view.SLA.Atrasado)
}
