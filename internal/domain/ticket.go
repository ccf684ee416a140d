package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Values are the
// stored and wire representation.
type TicketStatus string

const (
	TicketStatusOpen          TicketStatus = "Aberto"
	TicketStatusInProgress    TicketStatus = "Em Andamento"
	TicketStatusAwaitingReply TicketStatus = "Aguardando Resposta"
	TicketStatusResolved      TicketStatus = "Resolvido"
	TicketStatusClosed        TicketStatus = "Fechado"
	TicketStatusPendingClient TicketStatus = "Aguardando Cliente"
)

// settableStatuses are the targets accepted by a status update request.
// Aberto is only ever set at creation and is not a valid target.
var settableStatuses = map[TicketStatus]struct{}{
	TicketStatusInProgress:    {},
	TicketStatusAwaitingReply: {},
	TicketStatusResolved:      {},
	TicketStatusClosed:        {},
	TicketStatusPendingClient: {},
}

// Settable reports whether the status is an accepted update target.
func (s TicketStatus) Settable() bool {
	_, ok := settableStatuses[s]
	return ok
}

// RequesterMaySet reports whether a ticket owner may move the ticket from
// current to next. Requesters only react to a resolution: accepting it
// (Fechado) or sending it back (Aguardando Cliente).
func RequesterMaySet(current, next TicketStatus) bool {
	if current != TicketStatusResolved {
		return false
	}
	return next == TicketStatusClosed || next == TicketStatusPendingClient
}

// DepartmentQueueStatuses filter the department queue view to tickets that
// still need agent attention.
var DepartmentQueueStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusPendingClient,
}

// Ticket is the aggregate for support requests. Descricao holds the body
// supplied at creation; comments live in their own table and are rendered
// into the description on read.
type Ticket struct {
	Nro             int64
	Titulo          string
	Descricao       string
	IDSolicitante   int64
	IDAtendente     *int64
	CodDepto        int64
	Status          TicketStatus
	DataInicio      time.Time
	DataAtualizacao time.Time
}

// TicketListRow is the projection used by the list views.
type TicketListRow struct {
	Nro              int64
	Titulo           string
	Status           TicketStatus
	DataInicio       time.Time
	DataAtualizacao  time.Time
	DepartamentoArea string
}

// TicketDetail joins the ticket with requester, agent and department.
type TicketDetail struct {
	Ticket
	SolicitanteNome  string
	SolicitanteEmail string
	AtendenteNome    *string
	AtendenteEmail   *string
	DepartamentoArea string
}
