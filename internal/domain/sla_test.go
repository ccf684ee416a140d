package domain

import (
	"testing"
	"time"
)

func TestEvaluateSLA(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		status   TicketStatus
		inicio   time.Time
		atual    time.Time
		now      time.Time
		hours    float64
		atrasado bool
	}{
		{
			name:   "open inside window",
			status: TicketStatusOpen,
			inicio: base, atual: base,
			now:   base.Add(10 * time.Hour),
			hours: 10, atrasado: false,
		},
		{
			name:   "in progress past window",
			status: TicketStatusInProgress,
			inicio: base, atual: base.Add(time.Hour),
			now:   base.Add(50 * time.Hour),
			hours: 50, atrasado: true,
		},
		{
			name:   "pending client keeps counting",
			status: TicketStatusPendingClient,
			inicio: base, atual: base.Add(2 * time.Hour),
			now:   base.Add(49 * time.Hour),
			hours: 49, atrasado: true,
		},
		{
			name:   "resolved freezes at last update",
			status: TicketStatusResolved,
			inicio: base, atual: base.Add(24 * time.Hour),
			now:   base.Add(100 * time.Hour),
			hours: 24, atrasado: false,
		},
		{
			name:   "closed late stays flagged",
			status: TicketStatusClosed,
			inicio: base, atual: base.Add(72 * time.Hour),
			now:   base.Add(80 * time.Hour),
			hours: 72, atrasado: true,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateSLA(tt.status, tt.inicio, tt.atual, tt.now, DefaultSLAWindow)
			if got.HorasDecorridas != tt.hours {
				t.Fatalf("HorasDecorridas=%v, want %v", got.HorasDecorridas, tt.hours)
			}
			if got.Atrasado != tt.atrasado {
				t.Fatalf("Atrasado=%v, want %v", got.Atrasado, tt.atrasado)
			}
		})
	}
}

func TestEvaluateSLAZeroWindowFallsBack(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	got := EvaluateSLA(TicketStatusOpen, base, base, base.Add(47*time.Hour), 0)
	if got.Atrasado {
		t.Fatalf("47h with default window must not be overdue")
	}
}
