package dto

import (
	"time"

	"github.com/tcheflux/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Titulo           string `json:"titulo"`
	Descricao        string `json:"descricao"`
	DepartamentoArea string `json:"departamento_area"`
}

// CommentRequest payload for appending a comment.
type CommentRequest struct {
	Texto string `json:"texto"`
}

// StatusUpdateRequest payload for a status transition.
type StatusUpdateRequest struct {
	Status     string `json:"status"`
	Comentario string `json:"comentario"`
}

// TicketResponse is the full ticket row.
type TicketResponse struct {
	Nro             int64               `json:"nro"`
	Titulo          string              `json:"titulo"`
	Descricao       string              `json:"descricao"`
	IDSolicitante   int64               `json:"idsolicitante"`
	IDAtendente     *int64              `json:"idatendente"`
	CodDepto        int64               `json:"coddepto"`
	Status          domain.TicketStatus `json:"status"`
	DataInicio      time.Time           `json:"datainicio"`
	DataAtualizacao time.Time           `json:"dataatualizacao"`
}

// TicketSummary is a list row with the derived SLA fields.
type TicketSummary struct {
	Nro              int64               `json:"nro"`
	Titulo           string              `json:"titulo"`
	Status           domain.TicketStatus `json:"status"`
	DataInicio       time.Time           `json:"datainicio"`
	DataAtualizacao  time.Time           `json:"dataatualizacao"`
	DepartamentoArea string              `json:"departamento_area"`
	HorasDecorridas  float64             `json:"horas_decorridas"`
	Atrasado         bool                `json:"atrasado"`
}

// TicketDetailResponse joins requester, agent and department names.
type TicketDetailResponse struct {
	TicketResponse
	SolicitanteNome  string  `json:"solicitante_nome"`
	SolicitanteEmail string  `json:"solicitante_email"`
	AtendenteNome    *string `json:"atendente_nome"`
	AtendenteEmail   *string `json:"atendente_email"`
	DepartamentoArea string  `json:"departamento_area"`
	HorasDecorridas  float64 `json:"horas_decorridas"`
	Atrasado         bool    `json:"atrasado"`
}
