package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tcheflux/helpdesk/internal/auth"
	"github.com/tcheflux/helpdesk/internal/config"
	"github.com/tcheflux/helpdesk/internal/domain"
	"github.com/tcheflux/helpdesk/internal/repository"
	apperrors "github.com/tcheflux/helpdesk/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	directory  AreaResolver
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, directory AreaResolver) *AuthService {
	return &AuthService{
		users:      users,
		directory:  directory,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	NomeCompleto     string
	Telefone         string
	Email            string
	Senha            string
	Tipo             domain.UserRole
	DepartamentoArea string
}

// Register creates a new account. Agents must name a department area,
// requesters must not. Every account gets a real bcrypt hash; there is no
// placeholder-password path.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if strings.TrimSpace(in.NomeCompleto) == "" || strings.TrimSpace(in.Email) == "" || in.Senha == "" {
		return nil, apperrors.NewValidationError("nomecompleto, email e senha são obrigatórios", nil)
	}
	if !in.Tipo.Valid() {
		return nil, apperrors.NewValidationError("tipo deve ser 'Solicitante' ou 'Atendente'", nil)
	}

	area := strings.TrimSpace(in.DepartamentoArea)
	if in.Tipo == domain.RoleAgent && area == "" {
		return nil, apperrors.NewValidationError("atendentes devem ser associados a um departamento", nil)
	}
	if in.Tipo == domain.RoleRequester && area != "" {
		return nil, apperrors.NewValidationError("solicitantes não podem ter departamento", nil)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.NewConflict("email já cadastrado", map[string]any{"email": in.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var codDepto *int64
	if in.Tipo == domain.RoleAgent {
		id, err := s.directory.Resolve(ctx, area)
		if err != nil {
			return nil, err
		}
		codDepto = &id
	}

	hash, err := auth.HashPassword(in.Senha, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		NomeCompleto: in.NomeCompleto,
		Telefone:     in.Telefone,
		Email:        in.Email,
		SenhaHash:    hash,
		Tipo:         in.Tipo,
		CodDepto:     codDepto,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost the race against a concurrent registration with the same email.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("email já cadastrado", map[string]any{"email": in.Email})
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates by email and password and issues a session token.
// Unknown email and wrong password are distinct error kinds; both map to
// 401 at the boundary.
func (s *AuthService) Login(ctx context.Context, email, senha string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewCredentialNotFound()
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.SenhaHash, senha); err != nil {
		return nil, "", time.Time{}, apperrors.NewBadCredential()
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
