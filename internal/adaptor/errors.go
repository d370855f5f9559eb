package adaptor

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"vehicle-booking/internal/dto/response"
	"vehicle-booking/internal/usecase"
	"vehicle-booking/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps usecase errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, operation string) {
	var (
		validationErr *usecase.ValidationError
		conflictErr   *usecase.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Debug(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, validationErr.Message, validationErr.Fields)

	case errors.As(err, &conflictErr):
		viewer := utils.Principal{}
		if p, ok := utils.GetPrincipalFromContext(r.Context()); ok {
			viewer = p
		}
		utils.ResponseConflict(w, "Vehicle is already booked in that interval", response.ConflictErrors{
			Conflicts: response.BookingsToResponse(conflictErr.Conflicts, viewer.OwnerID),
		})

	case errors.Is(err, usecase.ErrNotFound):
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrAlreadyExists):
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrUnavailable):
		log.Error(operation+" failed - store unavailable", zap.Error(err))
		utils.ResponseUnavailable(w, "Service unavailable, please try again")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// decodeJSON reads the body into dst, answering 400 on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", map[string]string{"request": err.Error()})
		return false
	}
	return true
}

// principalFrom answers 401 when the session middleware did not run.
func principalFrom(w http.ResponseWriter, r *http.Request) (utils.Principal, bool) {
	principal, ok := utils.GetPrincipalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return principal, ok
}

func sessionMeta(r *http.Request) usecase.SessionMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return usecase.SessionMeta{UserAgent: r.UserAgent(), IPAddress: ip}
}
