package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cabin-booking/internal/data/entity"
	"cabin-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const testSecret = "middleware-test-secret"

type stubSessions struct{ mock.Mock }

func (m *stubSessions) Create(ctx context.Context, s *entity.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *stubSessions) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).(*entity.Session)
	return s, args.Error(1)
}

func (m *stubSessions) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *stubSessions) CleanExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type stubUsers struct{ mock.Mock }

func (m *stubUsers) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *stubUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *stubUsers) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

type authFixture struct {
	sessions  *stubSessions
	users     *stubUsers
	userID    uuid.UUID
	sessionID uuid.UUID
	handler   http.Handler
	got       *utils.Principal
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		sessions:  new(stubSessions),
		users:     new(stubUsers),
		userID:    uuid.New(),
		sessionID: uuid.New(),
	}
	f.handler = AuthSession(testSecret, f.sessions, f.users, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := utils.GetPrincipalFromContext(r.Context())
			f.got = &p
			w.WriteHeader(http.StatusOK)
		}))
	return f
}

func (f *authFixture) token(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, f.userID, f.sessionID, "staff", expiresAt)
	assert.NoError(t, err)
	return tok
}

func (f *authFixture) serve(authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthSession_ResolvesPrincipal(t *testing.T) {
	f := newAuthFixture(t)
	f.sessions.On("FindValidSession", mock.Anything, f.sessionID.String()).
		Return(&entity.Session{UserID: f.userID, Token: f.sessionID}, nil)
	f.users.On("FindByID", mock.Anything, f.userID).
		Return(&entity.User{Base: entity.Base{ID: f.userID}, Role: entity.RoleStaff, IsActive: true}, nil)

	rec := f.serve("bearer " + f.token(t, time.Now().Add(time.Hour)))

	assert.Equal(t, http.StatusOK, rec.Code)
	if assert.NotNil(t, f.got) {
		assert.Equal(t, f.userID, f.got.UserID)
		assert.True(t, f.got.IsStaff)
	}
}

func TestAuthSession_Rejects(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		f := newAuthFixture(t)
		assert.Equal(t, http.StatusUnauthorized, f.serve("").Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		f := newAuthFixture(t)
		assert.Equal(t, http.StatusUnauthorized, f.serve("Token abc").Code)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newAuthFixture(t)
		rec := f.serve("Bearer " + f.token(t, time.Now().Add(-time.Minute)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token has expired")
		f.sessions.AssertNotCalled(t, "FindValidSession", mock.Anything, mock.Anything)
	})

	t.Run("revoked session", func(t *testing.T) {
		f := newAuthFixture(t)
		f.sessions.On("FindValidSession", mock.Anything, f.sessionID.String()).Return(nil, nil)
		assert.Equal(t, http.StatusUnauthorized, f.serve("Bearer "+f.token(t, time.Now().Add(time.Hour))).Code)
	})

	t.Run("session of another user", func(t *testing.T) {
		f := newAuthFixture(t)
		f.sessions.On("FindValidSession", mock.Anything, f.sessionID.String()).
			Return(&entity.Session{UserID: uuid.New(), Token: f.sessionID}, nil)
		assert.Equal(t, http.StatusUnauthorized, f.serve("Bearer "+f.token(t, time.Now().Add(time.Hour))).Code)
	})

	t.Run("inactive user", func(t *testing.T) {
		f := newAuthFixture(t)
		f.sessions.On("FindValidSession", mock.Anything, f.sessionID.String()).
			Return(&entity.Session{UserID: f.userID, Token: f.sessionID}, nil)
		f.users.On("FindByID", mock.Anything, f.userID).
			Return(&entity.User{Base: entity.Base{ID: f.userID}, IsActive: false}, nil)
		assert.Equal(t, http.StatusUnauthorized, f.serve("Bearer "+f.token(t, time.Now().Add(time.Hour))).Code)
	})
}
