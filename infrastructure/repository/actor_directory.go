package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-metrics-api/internal/domain"
)

const (
	usersTable = "users u"
)

//go:generate mockgen -source=actor_directory.go -destination=mocks/mock_actor_directory.go -package=mocks

// ActorDirectory resolve id de vendedor para nome de exibição (somente leitura)
type ActorDirectory interface {
	ListActors(ctx context.Context, tenantID string) (map[string]domain.Actor, error)
}

type actorDirectory struct {
	conn *postgres.Connection
}

func NewActorDirectory(conn *postgres.Connection) ActorDirectory {
	return &actorDirectory{
		conn: conn,
	}
}

func (r *actorDirectory) ListActors(ctx context.Context, tenantID string) (map[string]domain.Actor, error) {
	query, args, err := squirrel.
		Select("u.id", "u.name", "u.lastname", "u.avatar_url").
		From(usersTable).
		Where(squirrel.Eq{"u.tenant_id": tenantID, "u.deleted": false}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.TranslateError(err, "erro ao buscar diretório de vendedores")
	}
	defer rows.Close()

	actors := make(map[string]domain.Actor)
	for rows.Next() {
		var (
			actor     domain.Actor
			name      string
			lastname  sql.NullString
			avatarURL sql.NullString
		)

		if err := rows.Scan(&actor.ID, &name, &lastname, &avatarURL); err != nil {
			return nil, fmt.Errorf("erro ao escanear vendedor: %w", err)
		}

		actor.DisplayName = strings.TrimSpace(name + " " + lastname.String)
		if avatarURL.Valid {
			url := avatarURL.String
			actor.AvatarURL = &url
		}

		actors[actor.ID] = actor
	}

	if err = rows.Err(); err != nil {
		return nil, postgres.TranslateError(err, "erro durante a iteração de linhas")
	}

	return actors, nil
}
