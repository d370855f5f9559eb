package response

import (
	"time"

	"vehicle-booking/internal/data/entity"
	"vehicle-booking/pkg/utils"
)

type AuthResponse struct {
	OwnerID   string    `json:"owner_id"`
	Label     string    `json:"label"`
	Method    string    `json:"method"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PrincipalResponse struct {
	OwnerID   string    `json:"owner_id"`
	Label     string    `json:"label"`
	Method    string    `json:"method"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SignagesResponse struct {
	Signages []string `json:"signages"`
}

func SessionToResponse(session *entity.Session) AuthResponse {
	return AuthResponse{
		OwnerID:   session.OwnerID.String(),
		Label:     session.OwnerLabel,
		Method:    string(session.Method),
		Token:     session.Token.String(),
		ExpiresAt: session.ExpiresAt,
	}
}

func PrincipalToResponse(p utils.Principal) PrincipalResponse {
	return PrincipalResponse{
		OwnerID:   p.OwnerID.String(),
		Label:     p.Label,
		Method:    p.Method,
		IssuedAt:  p.IssuedAt,
		ExpiresAt: p.ExpiresAt,
	}
}
