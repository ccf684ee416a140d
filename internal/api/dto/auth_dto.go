package dto

import "github.com/tcheflux/helpdesk/internal/domain"

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	NomeCompleto     string `json:"nomecompleto"`
	Telefone         string `json:"telefone"`
	Email            string `json:"email"`
	Senha            string `json:"senha"`
	Tipo             string `json:"tipo"`
	DepartamentoArea string `json:"departamento_area"`
}

// RegisterResponse confirms account creation.
type RegisterResponse struct {
	Message string         `json:"message"`
	Usuario RegisteredUser `json:"usuario"`
}

// RegisteredUser is the slim account echo after registration.
type RegisteredUser struct {
	ID    int64           `json:"id"`
	Email string          `json:"email"`
	Tipo  domain.UserRole `json:"tipo"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// LoginResponse carries the session token and the embedded identity.
type LoginResponse struct {
	Token   string     `json:"token"`
	Usuario LoggedUser `json:"usuario"`
}

// LoggedUser mirrors the token claims.
type LoggedUser struct {
	ID       int64           `json:"id"`
	Nome     string          `json:"nome"`
	Tipo     domain.UserRole `json:"tipo"`
	Email    string          `json:"email"`
	CodDepto *int64          `json:"coddepto,omitempty"`
}
