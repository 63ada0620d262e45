package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"parcel-track-api-server/internal/apperr"
	"parcel-track-api-server/internal/models"
)

type fakeIdentity struct {
	signInOut *models.UserProfile
	signInErr error

	signUpOut *models.UserProfile
	signUpErr error

	byEmailOut *models.UserProfile
	byEmailErr error

	token    string
	tokenErr error
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*models.UserProfile, error) {
	return f.signInOut, f.signInErr
}
func (f *fakeIdentity) SignUp(ctx context.Context, email, password, name string) (*models.UserProfile, error) {
	return f.signUpOut, f.signUpErr
}
func (f *fakeIdentity) FindByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	return f.byEmailOut, f.byEmailErr
}
func (f *fakeIdentity) Token(profile *models.UserProfile) (string, error) {
	return f.token, f.tokenErr
}

type loggedAttempt struct {
	userID  string
	success bool
	reason  string
}

type fakeAudit struct {
	attempts []loggedAttempt
}

func (f *fakeAudit) LogAttempt(ctx context.Context, userID string, success bool, failureReason, ipAddress, userAgent string) {
	f.attempts = append(f.attempts, loggedAttempt{userID: userID, success: success, reason: failureReason})
}

func TestManager_SignIn_success(t *testing.T) {
	user := &models.UserProfile{UID: "u1", Email: "a@example.com"}
	audit := &fakeAudit{}
	m := NewManager(&fakeIdentity{signInOut: user, token: "tok"}, audit)

	profile, token, err := m.SignIn(context.Background(), "a@example.com", "pw", Attempt{})
	require.NoError(t, err)
	require.Equal(t, "tok", token)
	require.Equal(t, user, profile)
	require.Equal(t, user, m.Current())

	require.Len(t, audit.attempts, 1)
	require.True(t, audit.attempts[0].success)
	require.Equal(t, "u1", audit.attempts[0].userID)
}

func TestManager_SignIn_failureAuditsExistingAccount(t *testing.T) {
	audit := &fakeAudit{}
	m := NewManager(&fakeIdentity{
		signInErr:  apperr.New(apperr.KindInvalidCredentials, "invalid email or password"),
		byEmailOut: &models.UserProfile{UID: "u1"},
	}, audit)

	_, _, err := m.SignIn(context.Background(), "a@example.com", "bad", Attempt{})
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
	require.Nil(t, m.Current())

	require.Len(t, audit.attempts, 1)
	require.False(t, audit.attempts[0].success)
	require.Equal(t, "u1", audit.attempts[0].userID)
}

func TestManager_SignIn_failureUnknownAccountNotAudited(t *testing.T) {
	audit := &fakeAudit{}
	m := NewManager(&fakeIdentity{
		signInErr:  apperr.New(apperr.KindInvalidCredentials, "invalid email or password"),
		byEmailErr: apperr.New(apperr.KindNotFound, "account not found"),
	}, audit)

	_, _, err := m.SignIn(context.Background(), "nobody@example.com", "pw", Attempt{})
	require.Error(t, err)
	require.Empty(t, audit.attempts)
}

func TestManager_SignUp_publishes(t *testing.T) {
	user := &models.UserProfile{UID: "u2", Email: "b@example.com"}
	m := NewManager(&fakeIdentity{signUpOut: user, token: "tok"}, &fakeAudit{})

	ch, cancel := m.Subscribe()
	defer cancel()
	require.Nil(t, <-ch) // latest value first: signed out

	profile, token, err := m.SignUp(context.Background(), "b@example.com", "pw123456", "B", Attempt{})
	require.NoError(t, err)
	require.Equal(t, "tok", token)
	require.Equal(t, user, profile)
	require.Equal(t, user, <-ch)
}

func TestManager_SignOut_clearsCurrent(t *testing.T) {
	user := &models.UserProfile{UID: "u1"}
	m := NewManager(&fakeIdentity{signInOut: user, token: "tok"}, nil)

	_, _, err := m.SignIn(context.Background(), "a@example.com", "pw", Attempt{})
	require.NoError(t, err)
	require.NotNil(t, m.Current())

	m.SignOut(context.Background())
	require.Nil(t, m.Current())
}

func TestManager_Subscribe_latestValueWins(t *testing.T) {
	u1 := &models.UserProfile{UID: "u1"}
	fake := &fakeIdentity{signInOut: u1, token: "tok"}
	m := NewManager(fake, nil)

	ch, cancel := m.Subscribe()
	defer cancel()

	// Subscriber never reads between these; only the newest value remains.
	_, _, err := m.SignIn(context.Background(), "a@example.com", "pw", Attempt{})
	require.NoError(t, err)
	m.SignOut(context.Background())

	require.Nil(t, <-ch)
}

func TestManager_Unsubscribe(t *testing.T) {
	m := NewManager(&fakeIdentity{signInOut: &models.UserProfile{UID: "u1"}, token: "tok"}, nil)

	ch, cancel := m.Subscribe()
	require.Nil(t, <-ch)
	cancel()

	// A closed channel yields the zero value without blocking.
	_, ok := <-ch
	require.False(t, ok)

	// Publishing after unsubscribe must not panic.
	_, _, err := m.SignIn(context.Background(), "a@example.com", "pw", Attempt{})
	require.NoError(t, err)
}
