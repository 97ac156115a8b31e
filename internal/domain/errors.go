package domain

import (
	"errors"
	"fmt"
)

// Falhas tipadas que cruzam a fronteira do motor de métricas
var (
	ErrConflict     = errors.New("concurrent write conflict")
	ErrUnauthorized = errors.New("not authorized to read tenant data")
	ErrUnavailable  = errors.New("metrics store unavailable")
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateEvent indica que o id do evento já foi aplicado para a chave
	ErrDuplicateEvent = errors.New("event already applied")
)

// MetricsError é um erro com contexto adicional para o motor de métricas
type MetricsError struct {
	Err      error  // Erro base (um dos erros tipados acima)
	Code     string // Código de erro para API
	TenantID string
	Details  string
}

// Error implementa a interface error
func (e *MetricsError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *MetricsError) Unwrap() error {
	return e.Err
}

// NewMetricsError cria um novo MetricsError
func NewMetricsError(err error, code string, tenantID string, details string) *MetricsError {
	return &MetricsError{
		Err:      err,
		Code:     code,
		TenantID: tenantID,
		Details:  details,
	}
}

// InvalidInputf cria um erro de entrada inválida com detalhes formatados
func InvalidInputf(format string, args ...any) error {
	return &MetricsError{Err: ErrInvalidInput, Details: fmt.Sprintf(format, args...)}
}
