// Package directory resolves user identities and the asymmetric role rules.
// It is the only part of the wider platform the messaging core needs to know
// about users.
package directory

import (
	"context"
	"database/sql"

	"github.com/iskra-app/backend/internal/domain"
)

type Directory interface {
	UserByID(ctx context.Context, id string) (*domain.User, error)
}

type Postgres struct {
	DB *sql.DB
}

func (d *Postgres) UserByID(ctx context.Context, id string) (*domain.User, error) {
	row := d.DB.QueryRowContext(ctx, `
		SELECT id, name, role, created_at
		FROM users
		WHERE id = $1
	`, id)

	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Role, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}
