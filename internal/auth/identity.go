// Package auth carries the caller identity forwarded by the Gateway.
//
// The Gateway validates the bearer token and forwards two headers:
//
//	x-user-id    the authenticated user's id (a UUID)
//	x-user-role  job_seeker | employee
//
// Middleware parses them once per request; handlers pass the resulting
// Identity explicitly into service calls.
package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"jobmate/board-service/internal/apperr"
)

// Role is the kind of account making the request.
type Role string

const (
	RoleJobSeeker Role = "job_seeker"
	RoleEmployee  Role = "employee"
)

const (
	HeaderUserID   = "x-user-id"
	HeaderUserRole = "x-user-role"
)

// Identity is the request-scoped caller.
type Identity struct {
	UserID string
	Role   Role
}

// IsJobSeeker reports whether the caller is an authenticated job seeker.
func (id Identity) IsJobSeeker() bool { return id.UserID != "" && id.Role == RoleJobSeeker }

// IsEmployee reports whether the caller is an authenticated employee.
func (id Identity) IsEmployee() bool { return id.UserID != "" && id.Role == RoleEmployee }

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored in ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok && id.UserID != ""
}

// Middleware extracts the forwarded identity headers. Requests without
// them pass through anonymously; protected handlers call Require.
// An unknown role or a user id that is not a UUID is rejected outright.
func Middleware(onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(HeaderUserID)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}
			role := Role(r.Header.Get(HeaderUserRole))
			switch role {
			case RoleJobSeeker, RoleEmployee:
			default:
				onError(w, r, apperr.Unauthorized("missing or unknown x-user-role header"))
				return
			}
			uid, err := uuid.Parse(userID)
			if err != nil {
				onError(w, r, apperr.Unauthorized("x-user-id header is not a valid user id"))
				return
			}
			ctx := WithIdentity(r.Context(), Identity{UserID: uid.String(), Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require returns the caller identity, failing with Unauthorized when the
// request is anonymous and Forbidden when the role does not match.
func Require(ctx context.Context, role Role) (Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return Identity{}, apperr.Unauthorized("missing x-user-id header")
	}
	if id.Role != role {
		return Identity{}, apperr.Forbidden("this action requires the " + string(role) + " role")
	}
	return id, nil
}
