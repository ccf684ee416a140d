package domain

import "time"

// UserRole distinguishes requesters from support agents.
type UserRole string

const (
	RoleRequester UserRole = "Solicitante"
	RoleAgent     UserRole = "Atendente"
)

// Valid reports whether the role is one of the two known values.
func (r UserRole) Valid() bool {
	return r == RoleRequester || r == RoleAgent
}

// User is the account model for both requesters and agents.
// CodDepto is set iff Tipo is RoleAgent.
type User struct {
	ID           int64
	NomeCompleto string
	Telefone     string
	Email        string
	SenhaHash    string
	Tipo         UserRole
	CodDepto     *int64
	CreatedAt    time.Time
}

// Identity is the authenticated caller as carried by the session token.
type Identity struct {
	ID       int64
	Nome     string
	Tipo     UserRole
	Email    string
	CodDepto *int64
}
