package repository

import (
	"context"
	"time"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
)

func (r *Repository) GetOperatorByUsername(username string) (*domain.Operator, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, username, password_hash, full_name, email, role, is_active, created_at, version
		FROM operators
		WHERE username = $1
	`

	op := &domain.Operator{}
	dst := []any{
		&op.ID,
		&op.Username,
		&op.PasswordHash,
		&op.FullName,
		&op.Email,
		&op.Role,
		&op.IsActive,
		&op.CreatedAt,
		&op.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return op, nil
}

func (r *Repository) GetOperatorByID(id int64) (*domain.Operator, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, username, password_hash, full_name, email, role, is_active, created_at, version
		FROM operators
		WHERE id = $1
	`

	op := &domain.Operator{}
	dst := []any{
		&op.ID,
		&op.Username,
		&op.PasswordHash,
		&op.FullName,
		&op.Email,
		&op.Role,
		&op.IsActive,
		&op.CreatedAt,
		&op.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return op, nil
}

func (r *Repository) CreateOperator(op *domain.Operator) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO operators (username, password_hash, full_name, email, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at, version
	`

	params := []any{op.Username, op.PasswordHash, op.FullName, op.Email, op.Role}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&op.ID, &op.IsActive, &op.CreatedAt, &op.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateOperator(op *domain.Operator) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE operators
		SET
			password_hash = $1,
			full_name = $2,
			email = $3,
			role = $4,
			is_active = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	params := []any{op.PasswordHash, op.FullName, op.Email, op.Role, op.IsActive, op.ID, op.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&op.Version); err != nil {
		return err
	}

	return nil
}
