package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/athaan-fi-beit/backend/internal/config"
	"github.com/athaan-fi-beit/backend/internal/domain"
	"github.com/athaan-fi-beit/backend/internal/repository"
	"github.com/athaan-fi-beit/backend/internal/service/recaptcha"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validInput() RegisterInput {
	return RegisterInput{
		Name:     "Amina Khan",
		Email:    "a@x.com",
		Phone:    "+4470000000",
		RemoteIP: "203.0.113.7",
	}
}

func quietNotifier() *notifierMock {
	n := new(notifierMock)
	n.On("NotifyAdmin", mock.Anything, mock.Anything).Return(nil)
	n.On("NotifyRegistrant", mock.Anything, mock.Anything).Return(nil)
	return n
}

func bypassVerifier() *verifierMock {
	v := new(verifierMock)
	v.On("Enabled").Return(false)
	return v
}

func TestRegisterCreatesRegistrant(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryRepositories().Registrants
	notifier := quietNotifier()
	svc := newSignupService(repo, bypassVerifier(), notifier)

	before := time.Now().UTC()
	registrant, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	found, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Amina Khan", found.Name)
	assert.Equal(t, "+4470000000", found.Phone)
	assert.False(t, found.CreatedAt.IsZero())
	assert.False(t, found.CreatedAt.Before(before))
	assert.Equal(t, registrant.ID, found.ID)

	require.NoError(t, svc.Wait(ctx))
	notifier.AssertCalled(t, "NotifyAdmin", mock.Anything, registrant)
	notifier.AssertCalled(t, "NotifyRegistrant", mock.Anything, registrant)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "" }},
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"missing phone", func(in *RegisterInput) { in.Phone = "" }},
		{"blank name", func(in *RegisterInput) { in.Name = "   " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := repository.NewInMemoryRepositories().Registrants
			verifier := new(verifierMock)
			notifier := new(notifierMock)
			svc := newSignupService(repo, verifier, notifier)

			in := validInput()
			tt.mutate(&in)

			_, err := svc.Register(ctx, in)
			require.ErrorIs(t, err, ErrValidation)

			count, err := repo.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, count)
			verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
			notifier.AssertNotCalled(t, "NotifyAdmin", mock.Anything, mock.Anything)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryRepositories().Registrants
	svc := newSignupService(repo, bypassVerifier(), quietNotifier())

	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		in := validInput()
		in.Name = "Someone Else"
		_, err = svc.Register(ctx, in)
		require.ErrorIs(t, err, ErrRegistrantAlreadyExists)
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegisterBypassesVerificationWithoutSecret(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryRepositories().Registrants
	verifier := recaptcha.NewClient(config.Recaptcha{MinScore: 0.5, VerifyURL: "http://127.0.0.1:1/unused"})
	svc := newSignupService(repo, verifier, quietNotifier())

	for _, token := range []string{"", "garbage"} {
		in := validInput()
		in.Email = token + "bypass@x.com"
		in.RecaptchaToken = token

		_, err := svc.Register(ctx, in)
		require.NoError(t, err)
	}
}

func TestRegisterVerificationFailure(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryRepositories().Registrants
	verifier := new(verifierMock)
	verifier.On("Enabled").Return(true)
	verifier.On("Verify", mock.Anything, "tok", "203.0.113.7").Return(recaptcha.Outcome{Reason: recaptcha.ReasonRejected})
	notifier := new(notifierMock)
	svc := newSignupService(repo, verifier, notifier)

	in := validInput()
	in.RecaptchaToken = "tok"

	_, err := svc.Register(ctx, in)
	require.ErrorIs(t, err, ErrVerificationFailed)

	_, err = repo.GetByEmail(ctx, in.Email)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	notifier.AssertNotCalled(t, "NotifyAdmin", mock.Anything, mock.Anything)
}

func TestRegisterRemoteVerifierDecisions(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"remote says no", `{"success":false}`, ErrVerificationFailed},
		{"score below minimum", `{"success":true,"score":0.3}`, ErrVerificationFailed},
		{"missing success flag", `{"score":0.9}`, ErrVerificationFailed},
		{"good score", `{"success":true,"score":0.9}`, nil},
		{"no score", `{"success":true}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			ctx := context.Background()
			repo := repository.NewInMemoryRepositories().Registrants
			verifier := recaptcha.NewClient(config.Recaptcha{
				Secret:    "s3cret",
				MinScore:  0.5,
				VerifyURL: srv.URL,
				Timeout:   time.Second,
			})
			svc := newSignupService(repo, verifier, quietNotifier())

			_, err := svc.Register(ctx, validInput())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				count, _ := repo.Count(ctx)
				assert.Zero(t, count)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRegisterInsertRaceIsDuplicate(t *testing.T) {
	repo := &registrantsStub{
		getByEmail: func(context.Context, string) (*domain.Registrant, error) { return nil, domain.ErrNotFound },
		create: func(context.Context, string, string, string) (*domain.Registrant, error) {
			return nil, domain.ErrDuplicateEntry
		},
	}
	notifier := new(notifierMock)
	svc := newSignupService(repo, bypassVerifier(), notifier)

	_, err := svc.Register(context.Background(), validInput())
	require.ErrorIs(t, err, ErrRegistrantAlreadyExists)
	notifier.AssertNotCalled(t, "NotifyAdmin", mock.Anything, mock.Anything)
}

func TestRegisterStoreErrors(t *testing.T) {
	storeDown := errors.New("connection refused")

	t.Run("lookup fails", func(t *testing.T) {
		repo := &registrantsStub{
			getByEmail: func(context.Context, string) (*domain.Registrant, error) { return nil, storeDown },
		}
		svc := newSignupService(repo, bypassVerifier(), new(notifierMock))

		_, err := svc.Register(context.Background(), validInput())
		require.ErrorIs(t, err, storeDown)
		assert.NotErrorIs(t, err, ErrRegistrantAlreadyExists)
	})

	t.Run("insert fails", func(t *testing.T) {
		repo := &registrantsStub{
			getByEmail: func(context.Context, string) (*domain.Registrant, error) { return nil, domain.ErrNotFound },
			create: func(context.Context, string, string, string) (*domain.Registrant, error) {
				return nil, storeDown
			},
		}
		svc := newSignupService(repo, bypassVerifier(), new(notifierMock))

		_, err := svc.Register(context.Background(), validInput())
		require.ErrorIs(t, err, storeDown)
	})
}

func TestRegisterConcurrentSameEmail(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryRepositories().Registrants
	svc := newSignupService(repo, bypassVerifier(), quietNotifier())

	const goroutines = 30

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := svc.Register(ctx, validInput())
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrRegistrantAlreadyExists):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()
	require.NoError(t, svc.Wait(ctx))

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(goroutines-1), conflicts.Load())

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegisterIgnoresNotifierFailures(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryRepositories().Registrants
	notifier := new(notifierMock)
	notifier.On("NotifyAdmin", mock.Anything, mock.Anything).Return(errors.New("relay down"))
	notifier.On("NotifyRegistrant", mock.Anything, mock.Anything).Return(errors.New("relay down"))
	svc := newSignupService(repo, bypassVerifier(), notifier)

	registrant, err := svc.Register(ctx, validInput())
	require.NoError(t, err)
	require.NotNil(t, registrant)

	_, err = repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NoError(t, svc.Wait(ctx))
	notifier.AssertNumberOfCalls(t, "NotifyAdmin", 1)
	notifier.AssertNumberOfCalls(t, "NotifyRegistrant", 1)
}

func TestRegisterNotifiesWithDetachedContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := repository.NewInMemoryRepositories().Registrants

	notifier := new(notifierMock)
	notifier.On("NotifyAdmin", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil)
	notifier.On("NotifyRegistrant", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), mock.Anything).
		Return(nil)
	svc := newSignupService(repo, bypassVerifier(), notifier)

	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)
	require.NoError(t, svc.Wait(context.Background()))
	notifier.AssertExpectations(t)
}

func TestRegisterDoesNotWaitForNotifications(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryRepositories().Registrants

	release := make(chan struct{})
	notifier := new(notifierMock)
	notifier.On("NotifyAdmin", mock.Anything, mock.Anything).Run(func(mock.Arguments) { <-release }).Return(nil)
	notifier.On("NotifyRegistrant", mock.Anything, mock.Anything).Return(nil)
	svc := newSignupService(repo, bypassVerifier(), notifier)

	start := time.Now()
	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Wait(waitCtx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, svc.Wait(ctx))
	notifier.AssertExpectations(t)
}
