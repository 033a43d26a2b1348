package adaptor

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cabin-booking/internal/dto/request"
	"cabin-booking/internal/dto/response"
	"cabin-booking/internal/usecase"
	"cabin-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestAuthHandler_Login(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, &request.LoginRequest{Username: "kari", Password: "secret-pass"}).
		Return(&response.AuthResponse{Token: "signed"}, nil)
	h := NewAuthHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"kari","password":"secret-pass"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"signed"`)
}

func TestAuthHandler_LoginInvalidCredentials(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, usecase.ErrInvalidCredentials)
	h := NewAuthHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"kari","password":"wrong"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_RegisterDuplicate(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, usecase.ErrDuplicate)
	h := NewAuthHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"username":"kari","email":"kari@example.com","password":"secret-pass"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Logout", mock.Anything, "session-token").Return(nil)
	h := NewAuthHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req = req.WithContext(utils.SetTokenContext(req.Context(), "session-token"))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_LogoutWithoutToken(t *testing.T) {
	svc := new(mockAuthService)
	h := NewAuthHandler(svc, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/logout", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
}
