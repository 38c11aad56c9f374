package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/vendafacil-api/internal/application/dto"
	"github.com/jhoicas/vendafacil-api/internal/domain"
	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
	"github.com/jhoicas/vendafacil-api/internal/domain/repository"
	"github.com/jhoicas/vendafacil-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login de empleados del punto de venta.
type AuthUseCase struct {
	employeeRepo repository.EmployeeRepository
	jwtCfg       JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(employeeRepo repository.EmployeeRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{employeeRepo: employeeRepo, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT y retorna token + empleado.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	emp, err := uc.employeeRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if emp.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, emp.ID, emp.CompanyID, emp.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:    token,
		Employee: toEmployeeResponse(emp),
	}, nil
}

func toEmployeeResponse(e *entity.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:        e.ID,
		CompanyID: e.CompanyID,
		Email:     e.Email,
		Name:      e.Name,
		Role:      e.Role,
	}
}
