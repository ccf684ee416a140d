package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tcheflux/helpdesk/internal/domain"
	apperrors "github.com/tcheflux/helpdesk/pkg/util"
)

// RequireAgent ensures the caller is an authenticated Atendente.
func RequireAgent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("autenticação necessária")
		}
		if identity.Tipo != domain.RoleAgent {
			return apperrors.NewForbidden("apenas atendentes podem executar esta operação")
		}
		return c.Next()
	}
}
