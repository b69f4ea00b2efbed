package repository

import (
	"context"

	"github.com/athaan-fi-beit/backend/internal/domain"

	"github.com/jmoiron/sqlx"
)

const (
	KindMySQL  = "mysql"
	KindMemory = "memory"
)

type Repositories struct {
	Kind        string
	Registrants Registrants
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Kind:        KindMySQL,
		Registrants: newRegistrantRepository(db),
	}
}

// NewInMemoryRepositories is the fallback used when no database is
// configured. Data is lost on restart.
func NewInMemoryRepositories() *Repositories {
	return &Repositories{
		Kind:        KindMemory,
		Registrants: newRegistrantMemory(),
	}
}

type Registrants interface {
	// GetByEmail returns domain.ErrNotFound when nobody registered with email.
	GetByEmail(ctx context.Context, email string) (*domain.Registrant, error)
	// Create returns domain.ErrDuplicateEntry when email is already taken.
	Create(ctx context.Context, name, email, phone string) (*domain.Registrant, error)
	Count(ctx context.Context) (int64, error)
}
