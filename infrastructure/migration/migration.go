// Package migration cria as tabelas usadas pelo motor de métricas.
package migration

import (
	"context"
	"database/sql"
	_ "embed"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//go:embed schema.sql
var schema string

// Execer é satisfeito por *postgres.Connection
type Execer interface {
	Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Statements devolve os comandos DDL na ordem de execução
func Statements() []string {
	parts := strings.Split(schema, ";")

	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		statement := strings.TrimSpace(part)
		if statement == "" {
			continue
		}
		statements = append(statements, statement)
	}
	return statements
}

// Run aplica o schema; todos os comandos são idempotentes
func Run(ctx context.Context, conn Execer) error {
	statements := Statements()

	for i, statement := range statements {
		if _, err := conn.Exec(ctx, statement); err != nil {
			return errors.Wrapf(err, "erro ao aplicar comando %d da migração", i+1)
		}
	}

	logrus.WithField("statements", len(statements)).Info("Migração do schema de métricas aplicada")
	return nil
}
