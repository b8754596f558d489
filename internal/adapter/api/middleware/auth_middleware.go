package middleware

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"marketly/pkg/errors"
	"marketly/pkg/response"
)

const (
	ContextUID   = "uid"
	ContextGuest = "guest"

	guestPrefix    = "guest_"
	deviceIDHeader = "X-Device-ID"
)

// TokenVerifier resolves an ID token to a user id.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		idToken, ok := bearerToken(authHeader)
		if !ok {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		uid, err := m.verifier.VerifyToken(c.Request().Context(), idToken)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		c.Set(ContextUID, uid)
		return next(c)
	}
}

// OptionalAuth lets unauthenticated requests through as a guest. Guests get a
// stable id from the X-Device-ID header when the client sends one.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if idToken, ok := bearerToken(c.Request().Header.Get("Authorization")); ok {
			if uid, err := m.verifier.VerifyToken(c.Request().Context(), idToken); err == nil {
				c.Set(ContextUID, uid)
				return next(c)
			}
		}

		c.Set(ContextGuest, GuestID(c.Request().Header.Get(deviceIDHeader)))
		return next(c)
	}
}

// GuestID derives the pseudo user id used for guests.
func GuestID(deviceID string) string {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		deviceID = uuid.New().String()
	}
	return guestPrefix + deviceID
}

// UID returns the authenticated user id, or "" for guests.
func UID(c echo.Context) string {
	uid, _ := c.Get(ContextUID).(string)
	return uid
}

// ActorID returns the authenticated user id or the guest id.
func ActorID(c echo.Context) string {
	if uid := UID(c); uid != "" {
		return uid
	}
	guest, _ := c.Get(ContextGuest).(string)
	return guest
}

// VerifyQueryToken authenticates with the "token" query parameter, for
// clients that cannot set headers on a WebSocket upgrade.
func (m *AuthMiddleware) VerifyQueryToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		if token == "" {
			if t, ok := bearerToken(c.Request().Header.Get("Authorization")); ok {
				token = t
			}
		}
		if token == "" {
			return response.Error(c, errors.Unauthorized("Token is required", nil))
		}

		uid, err := m.verifier.VerifyToken(c.Request().Context(), token)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		c.Set(ContextUID, uid)
		return next(c)
	}
}
