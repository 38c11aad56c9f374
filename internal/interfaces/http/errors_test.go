package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/vendafacil-api/internal/domain"
)

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: número", domain.ErrInvalidInput), fiber.StatusBadRequest, "VALIDATION"},
		{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrSaleCancelled, fiber.StatusConflict, "SALE_CANCELLED"},
		{domain.ErrAlreadyIssued, fiber.StatusConflict, "ALREADY_ISSUED"},
		{domain.ErrFiscalNotIssued, fiber.StatusConflict, "FISCAL_NOT_ISSUED"},
		{fmt.Errorf("%w: ya es devolución", domain.ErrConflict), fiber.StatusConflict, "CONFLICT"},
		{errors.New("db caída"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := errorStatus(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}
