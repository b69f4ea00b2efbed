package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/athaan-fi-beit/backend/internal/domain"

	"github.com/stretchr/testify/suite"
)

type RegistrantMemorySuite struct {
	suite.Suite
	repo *registrantMemory
	ctx  context.Context
}

func (s *RegistrantMemorySuite) SetupTest() {
	s.repo = newRegistrantMemory()
	s.ctx = context.Background()
}

func TestRegistrantMemorySuite(t *testing.T) {
	suite.Run(t, new(RegistrantMemorySuite))
}

func (s *RegistrantMemorySuite) TestCreateAndLookup() {
	s.Run("creates and finds registrant by email", func() {
		fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		s.repo.now = func() time.Time { return fixed }

		created, err := s.repo.Create(s.ctx, "Amina", "amina@x.com", "+4470000000")
		s.Require().NoError(err)
		s.NotEmpty(created.ID)
		s.Equal(fixed, created.CreatedAt)

		found, err := s.repo.GetByEmail(s.ctx, "amina@x.com")
		s.Require().NoError(err)
		s.Equal(*created, *found)
	})

	s.Run("returns ErrNotFound for unknown email", func() {
		_, err := s.repo.GetByEmail(s.ctx, "nobody@x.com")
		s.Require().ErrorIs(err, domain.ErrNotFound)
	})

	s.Run("matches email exactly", func() {
		_, err := s.repo.GetByEmail(s.ctx, "AMINA@x.com")
		s.Require().ErrorIs(err, domain.ErrNotFound)
	})
}

func (s *RegistrantMemorySuite) TestEmailUniqueness() {
	_, err := s.repo.Create(s.ctx, "Yusuf", "a@x.com", "1")
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, "Someone Else", "a@x.com", "2")
	s.Require().ErrorIs(err, domain.ErrDuplicateEntry)

	count, err := s.repo.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	found, err := s.repo.GetByEmail(s.ctx, "a@x.com")
	s.Require().NoError(err)
	s.Equal("Yusuf", found.Name)
}

func (s *RegistrantMemorySuite) TestConcurrentCreateSameEmail() {
	const goroutines = 50

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			_, err := s.repo.Create(s.ctx, fmt.Sprintf("user %d", i), "race@x.com", "1")
			switch {
			case err == nil:
				successes.Add(1)
			case err == domain.ErrDuplicateEntry:
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())

	count, err := s.repo.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *RegistrantMemorySuite) TestReturnedRecordIsACopy() {
	created, err := s.repo.Create(s.ctx, "Amina", "copy@x.com", "1")
	s.Require().NoError(err)

	created.Name = "mutated"

	found, err := s.repo.GetByEmail(s.ctx, "copy@x.com")
	s.Require().NoError(err)
	s.Equal("Amina", found.Name)
}
