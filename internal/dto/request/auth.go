package request

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CodeLoginRequest is the shared access code plus a call-sign.
type CodeLoginRequest struct {
	Code    string `json:"code" validate:"required,numeric,max=32"`
	Signage string `json:"signage" validate:"required,max=32"`
}
