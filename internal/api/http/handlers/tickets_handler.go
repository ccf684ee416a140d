package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tcheflux/helpdesk/internal/api/dto"
	"github.com/tcheflux/helpdesk/internal/auth"
	"github.com/tcheflux/helpdesk/internal/domain"
	"github.com/tcheflux/helpdesk/internal/service"
	apperrors "github.com/tcheflux/helpdesk/pkg/util"
)

// TicketsHandler manages the ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService}
}

// Create POST /api/tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}

	ticket, err := h.tickets.Create(c.Context(), *identity, service.TicketCreateInput{
		Titulo:           req.Titulo,
		Descricao:        req.Descricao,
		DepartamentoArea: req.DepartamentoArea,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ticketResponse(ticket))
}

// ListMine GET /api/tickets/meus-tickets.
func (h *TicketsHandler) ListMine(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	rows, err := h.tickets.ListMine(c.Context(), *identity)
	if err != nil {
		return err
	}
	return c.JSON(summaries(rows))
}

// ListDepartment GET /api/tickets/departamento.
func (h *TicketsHandler) ListDepartment(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	rows, err := h.tickets.ListDepartmentQueue(c.Context(), *identity)
	if err != nil {
		return err
	}
	return c.JSON(summaries(rows))
}

// ListAssigned GET /api/tickets/ticket-atendente.
func (h *TicketsHandler) ListAssigned(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	rows, err := h.tickets.ListAssigned(c.Context(), *identity)
	if err != nil {
		return err
	}
	return c.JSON(summaries(rows))
}

// Claim PUT /api/tickets/:nro/assumir.
func (h *TicketsHandler) Claim(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	nro, err := ticketNro(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Claim(c.Context(), *identity, nro)
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(ticket))
}

// GetDetail GET /api/tickets/:nro.
func (h *TicketsHandler) GetDetail(c *fiber.Ctx) error {
	if _, err := callerIdentity(c); err != nil {
		return err
	}
	nro, err := ticketNro(c)
	if err != nil {
		return err
	}
	view, err := h.tickets.GetDetail(c.Context(), nro)
	if err != nil {
		return err
	}
	return c.JSON(detailResponse(view))
}

// AddComment PUT /api/tickets/:nro/comentario.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	nro, err := ticketNro(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	ticket, err := h.tickets.AppendComment(c.Context(), *identity, nro, req.Texto)
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(ticket))
}

// SetStatus PUT /api/tickets/:nro/status.
func (h *TicketsHandler) SetStatus(c *fiber.Ctx) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}
	nro, err := ticketNro(c)
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	ticket, err := h.tickets.SetStatus(c.Context(), *identity, nro, domain.TicketStatus(req.Status), req.Comentario)
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(ticket))
}

func callerIdentity(c *fiber.Ctx) (*domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthenticated("autenticação necessária")
	}
	return identity, nil
}

func ticketNro(c *fiber.Ctx) (int64, error) {
	nro, err := strconv.ParseInt(c.Params("nro"), 10, 64)
	if err != nil || nro <= 0 {
		return 0, apperrors.NewValidationError("número de ticket inválido", nil)
	}
	return nro, nil
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		Nro:             ticket.Nro,
		Titulo:          ticket.Titulo,
		Descricao:       ticket.Descricao,
		IDSolicitante:   ticket.IDSolicitante,
		IDAtendente:     ticket.IDAtendente,
		CodDepto:        ticket.CodDepto,
		Status:          ticket.Status,
		DataInicio:      ticket.DataInicio,
		DataAtualizacao: ticket.DataAtualizacao,
	}
}

func summaries(rows []service.TicketOverview) []dto.TicketSummary {
	items := make([]dto.TicketSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.TicketSummary{
			Nro:              row.Nro,
			Titulo:           row.Titulo,
			Status:           row.Status,
			DataInicio:       row.DataInicio,
			DataAtualizacao:  row.DataAtualizacao,
			DepartamentoArea: row.DepartamentoArea,
			HorasDecorridas:  row.SLA.HorasDecorridas,
			Atrasado:         row.SLA.Atrasado,
		})
	}
	return items
}

func detailResponse(view *service.TicketView) dto.TicketDetailResponse {
	return dto.TicketDetailResponse{
		TicketResponse:   ticketResponse(&view.Ticket),
		SolicitanteNome:  view.SolicitanteNome,
		SolicitanteEmail: view.SolicitanteEmail,
		AtendenteNome:    view.AtendenteNome,
		AtendenteEmail:   view.AtendenteEmail,
		DepartamentoArea: view.DepartamentoArea,
		HorasDecorridas:  view.SLA.HorasDecorridas,
		Atrasado:         view.SLA.Atrasado,
	}
}
