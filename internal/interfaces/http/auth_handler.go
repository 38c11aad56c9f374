package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendafacil-api/internal/application/auth"
	"github.com/jhoicas/vendafacil-api/internal/application/dto"
)

// AuthHandler maneja el login de empleados.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return badRequest(c, "email y password son requeridos")
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		status, code := errorStatus(err)
		switch status {
		case fiber.StatusUnauthorized:
			return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "credenciales inválidas"})
		case fiber.StatusForbidden:
			return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "cuenta inactiva o suspendida"})
		}
		return writeError(c, err)
	}
	return c.JSON(out)
}
