package utils

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	PrincipalKey contextKey = "principal"
	TokenKey     contextKey = "token"
)

// Principal is the identity attached to a request by the session middleware.
// Label is the email for identity logins and the call-sign for code logins.
type Principal struct {
	OwnerID   uuid.UUID
	Label     string
	Method    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func GetPrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(Principal)
	if !ok || principal.OwnerID == uuid.Nil {
		return Principal{}, false
	}
	return principal, true
}

func SetPrincipalContext(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}

// GetTokenFromContext mendapatkan token dari context
func GetTokenFromContext(ctx context.Context) (string, bool) {
	tokenVal := ctx.Value(TokenKey)
	if tokenVal == nil {
		return "", false
	}

	token, ok := tokenVal.(string)
	return token, ok
}

// SetTokenContext menambahkan token ke context
func SetTokenContext(ctx context.Context, token string) context.Context {
	ctx = context.WithValue(ctx, TokenKey, token)
	return ctx
}
