package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"vehicle-booking/internal/data/entity"
	"vehicle-booking/internal/data/repository"
	"vehicle-booking/internal/dto/request"
	"vehicle-booking/internal/dto/response"
	"vehicle-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionMeta is request information recorded on a new session.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, meta SessionMeta) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, meta SessionMeta) (*response.AuthResponse, error)
	LoginWithCode(ctx context.Context, req *request.CodeLoginRequest, meta SessionMeta) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	Signages() response.SignagesResponse
	Me(ctx context.Context, principal utils.Principal) (*response.PrincipalResponse, error)
	CleanupSessions(ctx context.Context) (int64, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, meta SessionMeta) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Debug("Register validation failed", zap.Any("errors", errs))
		return nil, newValidationError("invalid registration", errs)
	}

	email := normalizeEmail(req.Email)

	existingUser, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, unavailable("check email", err)
	}
	if existingUser != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrAlreadyExists)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, fmt.Errorf("%w: email already registered", ErrAlreadyExists)
		}
		return nil, unavailable("create user", err)
	}

	// auto login after register
	session, err := s.createSession(ctx, user.ID, user.Email, entity.SessionMethodIdentity, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered", zap.String("user_id", user.ID.String()))

	resp := response.SessionToResponse(session)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, meta SessionMeta) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError("invalid login", errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, unavailable("find user", err)
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid credentials")
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("%w: account is deactivated", ErrForbidden)
	}

	session, err := s.createSession(ctx, user.ID, user.Email, entity.SessionMethodIdentity, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	resp := response.SessionToResponse(session)
	return &resp, nil
}

// LoginWithCode accepts the shared access code and binds the session to
// the signage's persisted owner id.
func (s *authService) LoginWithCode(ctx context.Context, req *request.CodeLoginRequest, meta SessionMeta) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError("invalid access code login", errs)
	}

	expected := s.config.Access.Code
	if expected == "" {
		return nil, fmt.Errorf("%w: access code login is disabled", ErrUnauthorized)
	}
	if subtle.ConstantTimeCompare([]byte(req.Code), []byte(expected)) != 1 {
		s.log.Warn("Wrong access code")
		return nil, fmt.Errorf("%w: wrong access code", ErrUnauthorized)
	}

	label := utils.NormalizeSignage(req.Signage)
	if label == "" {
		return nil, fieldError("signage", "This field is required")
	}

	signage, err := s.repo.Signage.FindOrCreate(ctx, label, s.now())
	if err != nil {
		return nil, unavailable("resolve signage", err)
	}

	session, err := s.createSession(ctx, signage.ID, signage.Label, entity.SessionMethodCode, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("Signage logged in",
		zap.String("signage", signage.Label),
		zap.String("owner_id", signage.ID.String()))

	resp := response.SessionToResponse(session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return fmt.Errorf("%w: invalid token format", ErrUnauthorized)
	}

	if err := s.repo.Session.Revoke(ctx, tokenUUID, s.now()); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return fmt.Errorf("%w: session already ended", ErrUnauthorized)
		}
		return unavailable("revoke session", err)
	}

	return nil
}

func (s *authService) Signages() response.SignagesResponse {
	signages := make([]string, 0, len(s.config.Access.Signages))
	for _, label := range s.config.Access.Signages {
		signages = append(signages, utils.NormalizeSignage(label))
	}
	return response.SignagesResponse{Signages: signages}
}

func (s *authService) Me(ctx context.Context, principal utils.Principal) (*response.PrincipalResponse, error) {
	if principal.Method == string(entity.SessionMethodIdentity) {
		user, err := s.repo.User.FindByID(ctx, principal.OwnerID)
		if err != nil {
			return nil, unavailable("find user", err)
		}
		if user == nil || !user.IsActive {
			return nil, fmt.Errorf("%w: account no longer active", ErrUnauthorized)
		}
	}

	resp := response.PrincipalToResponse(principal)
	return &resp, nil
}

// CleanupSessions removes sessions that expired before now.
func (s *authService) CleanupSessions(ctx context.Context) (int64, error) {
	removed, err := s.repo.Session.CleanExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, unavailable("clean sessions", err)
	}
	if removed > 0 {
		s.log.Info("Expired sessions removed", zap.Int64("count", removed))
	}
	return removed, nil
}

// ==================== HELPER METHODS ====================

func (s *authService) createSession(ctx context.Context, ownerID uuid.UUID, label string, method entity.SessionMethod, meta SessionMeta) (*entity.Session, error) {
	hours := s.config.Session.ExpiryHours
	if method == entity.SessionMethodCode {
		hours = s.config.Session.CodeExpiryHours
	}

	now := s.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		OwnerID:    ownerID,
		OwnerLabel: label,
		Method:     method,
		Token:      uuid.New(),
		UserAgent:  optional(meta.UserAgent),
		IPAddress:  optional(meta.IPAddress),
		ExpiresAt:  now.Add(time.Duration(hours) * time.Hour),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, unavailable("create session", err)
	}

	return session, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
