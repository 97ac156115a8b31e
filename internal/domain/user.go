package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims são as informações do token emitido pelo serviço de autenticação
type Claims struct {
	UserID     string `json:"user_id"`
	TenantID   string `json:"tenant_id"`
	UserRoleID int    `json:"role_id"`
	jwt.RegisteredClaims
}
