package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tcheflux/helpdesk/internal/api/dto"
	"github.com/tcheflux/helpdesk/internal/domain"
	"github.com/tcheflux/helpdesk/internal/service"
	apperrors "github.com/tcheflux/helpdesk/pkg/util"
)

// AuthHandler exposes registration and login endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}

	user, err := h.auth.Register(c.Context(), service.RegisterInput{
		NomeCompleto:     req.NomeCompleto,
		Telefone:         req.Telefone,
		Email:            req.Email,
		Senha:            req.Senha,
		Tipo:             domain.UserRole(req.Tipo),
		DepartamentoArea: req.DepartamentoArea,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.RegisterResponse{
		Message: "Usuário registrado com sucesso.",
		Usuario: dto.RegisteredUser{
			ID:    user.ID,
			Email: user.Email,
			Tipo:  user.Tipo,
		},
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	if req.Email == "" || req.Senha == "" {
		return apperrors.NewValidationError("Email e senha são obrigatórios.", nil)
	}

	user, token, _, err := h.auth.Login(c.Context(), req.Email, req.Senha)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Token: token,
		Usuario: dto.LoggedUser{
			ID:       user.ID,
			Nome:     user.NomeCompleto,
			Tipo:     user.Tipo,
			Email:    user.Email,
			CodDepto: user.CodDepto,
		},
	})
}
