package repository

import (
	"context"
	"time"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
)

func (r *Repository) GetAllClients() ([]*domain.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, code, full_name, address, is_active, created_at, version
		FROM clients
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		c := &domain.Client{}
		dst := []any{
			&c.ID,
			&c.Code,
			&c.FullName,
			&c.Address,
			&c.IsActive,
			&c.CreatedAt,
			&c.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *Repository) GetClientByID(id int64) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, code, full_name, address, is_active, created_at, version
		FROM clients
		WHERE id = $1
	`

	c := &domain.Client{}
	dst := []any{
		&c.ID,
		&c.Code,
		&c.FullName,
		&c.Address,
		&c.IsActive,
		&c.CreatedAt,
		&c.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return c, nil
}

func (r *Repository) CreateClient(c *domain.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO clients (code, full_name, address)
		VALUES ($1, $2, $3)
		RETURNING id, is_active, created_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, c.Code, c.FullName, c.Address).Scan(&c.ID, &c.IsActive, &c.CreatedAt, &c.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateClient(c *domain.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE clients
		SET
			code = $1,
			full_name = $2,
			address = $3,
			is_active = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	params := []any{c.Code, c.FullName, c.Address, c.IsActive, c.ID, c.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&c.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteClient(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM clients WHERE id = $1
	`

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
