package domain

import (
	"time"

	"github.com/google/uuid"
)

// Registrant is a person who submitted the signup form. Email is the
// uniqueness key and is compared exactly as supplied.
type Registrant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
