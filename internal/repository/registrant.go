package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/athaan-fi-beit/backend/internal/db"
	"github.com/athaan-fi-beit/backend/internal/domain"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type registrantRepository struct {
	db *sqlx.DB
}

func newRegistrantRepository(db *sqlx.DB) *registrantRepository {
	return &registrantRepository{
		db: db,
	}
}

func (r *registrantRepository) GetByEmail(ctx context.Context, email string) (*domain.Registrant, error) {
	const query = `
	SELECT id, name, email, phone, created_at FROM registrant WHERE email = ?;
	`
	var registrant domain.Registrant
	if err := r.db.GetContext(ctx, &registrant, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select from registrant by email failed: %w", err)
	}

	return &registrant, nil
}

func (r *registrantRepository) Create(ctx context.Context, name, email, phone string) (*domain.Registrant, error) {
	const query = `
	INSERT INTO registrant
	(id, name, email, phone, created_at)
	VALUES(uuid_to_bin(?), ?, ?, ?, ?);
	`

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate registrant id failed: %w", err)
	}

	registrant := &domain.Registrant{
		ID:        id,
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	result, err := r.db.ExecContext(ctx, query,
		registrant.ID,
		registrant.Name,
		registrant.Email,
		registrant.Phone,
		registrant.CreatedAt,
	)
	if err != nil {
		//nolint:errorlint
		if mysqlError, ok := err.(*mysql.MySQLError); ok && mysqlError.Number == db.DuplicateEntry {
			return nil, domain.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("db insert registrant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected failed: %w", err)
	}

	if rowsAffected == 0 {
		return nil, domain.ErrNoRowsAffected
	}

	return registrant, nil
}

func (r *registrantRepository) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM registrant`
	var count int64
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count registrants failed: %w", err)
	}
	return count, nil
}
