package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	PrincipalKey contextKey = "principal"
	TokenKey     contextKey = "token"
)

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID  uuid.UUID
	IsStaff bool
}

func SetPrincipalContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

func GetPrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(Principal)
	if !ok || p.UserID == uuid.Nil {
		return Principal{}, false
	}
	return p, true
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	p, ok := GetPrincipalFromContext(ctx)
	return p.UserID, ok
}

// GetTokenFromContext returns the session id (jti) of the current token.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	tokenVal := ctx.Value(TokenKey)
	if tokenVal == nil {
		return "", false
	}

	token, ok := tokenVal.(string)
	return token, ok
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
