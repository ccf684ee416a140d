package domain

import "time"

// DefaultSLAWindow is the service-level target measured from ticket creation.
const DefaultSLAWindow = 48 * time.Hour

// SLAReport is derived on every read and never persisted.
type SLAReport struct {
	HorasDecorridas float64
	Atrasado        bool
}

// EvaluateSLA computes the elapsed service time for a ticket. Tickets that
// reached Resolvido or Fechado freeze the clock at their last update; every
// other status keeps counting from creation until now.
func EvaluateSLA(status TicketStatus, inicio, atualizacao, now time.Time, window time.Duration) SLAReport {
	if window <= 0 {
		window = DefaultSLAWindow
	}

	var elapsed time.Duration
	switch status {
	case TicketStatusResolved, TicketStatusClosed:
		elapsed = atualizacao.Sub(inicio)
	default:
		elapsed = now.Sub(inicio)
	}
	if elapsed < 0 {
		elapsed = 0
	}

	return SLAReport{
		HorasDecorridas: elapsed.Hours(),
		Atrasado:        elapsed > window,
	}
}
