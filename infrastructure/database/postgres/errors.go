package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

// Códigos SQLSTATE relevantes para o motor de métricas
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeInsufficientPriv     = "42501"

	// classe 22: exceções de dados, como estouro numérico
	classDataException = "22"
)

// TranslateError converte erros do driver nos erros tipados do domínio.
// Erros não reconhecidos são devolvidos envelopados, sem tradução.
func TranslateError(err error, operation string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w: %v", operation, domain.ErrUnavailable, err)
	case errors.Is(err, driver.ErrBadConn):
		return fmt.Errorf("%s: %w: %v", operation, domain.ErrUnavailable, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		switch {
		case code == codeSerializationFailure, code == codeDeadlockDetected:
			return fmt.Errorf("%s: %w (código: %s)", operation, domain.ErrConflict, code)
		case code == codeInsufficientPriv:
			return fmt.Errorf("%s: %w (código: %s)", operation, domain.ErrUnauthorized, code)
		case strings.HasPrefix(code, classDataException):
			return fmt.Errorf("%s: %w (código: %s)", operation, domain.ErrInvalidInput, code)
		case strings.HasPrefix(code, "08"), strings.HasPrefix(code, "53"), strings.HasPrefix(code, "57P"):
			return fmt.Errorf("%s: %w (código: %s)", operation, domain.ErrUnavailable, code)
		}
		return fmt.Errorf("%s: erro no banco de dados: %w (código: %s)", operation, err, code)
	}

	return fmt.Errorf("%s: %w", operation, err)
}
