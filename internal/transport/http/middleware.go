package httptransport

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskflow-server-go/internal/domain/auth"
	"taskflow-server-go/internal/domain/auth/session"
)

// Context keys populated by the auth middleware.
const (
	ctxKeyUserID = "user_id"
	ctxKeyRole   = "role"
	ctxKeyToken  = "token"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID string
	Role   string
	Token  string
}

// CurrentIdentity reads the identity the auth middleware attached, if any.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	userID, ok := c.Get(ctxKeyUserID)
	if !ok {
		return Identity{}, false
	}
	role, _ := c.Get(ctxKeyRole)
	token, _ := c.Get(ctxKeyToken)
	return Identity{
		UserID: userID.(string),
		Role:   role.(string),
		Token:  token.(string),
	}, true
}

// Rejection messages the gate answers with. Stable: clients match on them.
const (
	msgNoToken       = "No token provided. Please login"
	msgInvalidToken  = "Invalid or expired token"
	msgRevokedToken  = "Token has been revoked or expired"
	msgAuthFailed    = "Authentication failed"
	msgNotAuthorized = "Not authenticated"
)

// AuthGuard bundles the codec and store the gate checks tokens against.
type AuthGuard struct {
	codec    *auth.TokenCodec
	sessions *session.Provider
	logger   session.Logger
}

// NewAuthGuard wires a guard for the middleware constructors below.
func NewAuthGuard(codec *auth.TokenCodec, sessions *session.Provider, logger session.Logger) *AuthGuard {
	return &AuthGuard{codec: codec, sessions: sessions, logger: logger}
}

// check runs the verification sequence and returns the identity or a
// rejection message. A panic or store failure anywhere in the sequence
// normalizes to msgAuthFailed: internal errors never surface as 500s from
// this path, and an unverifiable revocation status counts as revoked.
func (g *AuthGuard) check(c *gin.Context) (identity Identity, rejection string) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("auth check panic: %v", r)
			identity, rejection = Identity{}, msgAuthFailed
		}
	}()

	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return Identity{}, msgNoToken
	}
	token := strings.TrimPrefix(header, "Bearer ")

	claims, err := g.codec.Verify(token)
	if err != nil {
		return Identity{}, msgInvalidToken
	}

	ctx := c.Request.Context()
	live, err := g.sessions.Store(ctx).Exists(ctx, session.TokenKey(token))
	if err != nil {
		g.logger.Warn("session store lookup failed, rejecting: %v", err)
		return Identity{}, msgAuthFailed
	}
	if !live {
		return Identity{}, msgRevokedToken
	}

	return Identity{
		UserID: claims.SubjectID(),
		Role:   claims.Role,
		Token:  token,
	}, ""
}

// RequireAuth admits only requests carrying a valid, unrevoked token and
// attaches the identity to the request context.
func (g *AuthGuard) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, rejection := g.check(c)
		if rejection != "" {
			RespondError(c, http.StatusUnauthorized, rejection, nil)
			c.Abort()
			return
		}
		c.Set(ctxKeyUserID, identity.UserID)
		c.Set(ctxKeyRole, identity.Role)
		c.Set(ctxKeyToken, identity.Token)
		c.Next()
	}
}

// OptionalAuth attaches an identity when the token checks out and proceeds
// without one otherwise. It never blocks the request.
func (g *AuthGuard) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, rejection := g.check(c); rejection == "" {
			c.Set(ctxKeyUserID, identity.UserID)
			c.Set(ctxKeyRole, identity.Role)
			c.Set(ctxKeyToken, identity.Token)
		}
		c.Next()
	}
}

// RequireRole restricts an already-authenticated request to the given roles.
// Must run after RequireAuth.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			RespondError(c, http.StatusUnauthorized, msgNotAuthorized, nil)
			c.Abort()
			return
		}

		for _, role := range allowedRoles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		RespondError(c, http.StatusForbidden,
			"This action requires "+strings.Join(allowedRoles, " or ")+" role", nil)
		c.Abort()
	}
}
