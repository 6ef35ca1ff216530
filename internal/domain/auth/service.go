package auth

import (
	"context"
	"time"

	"taskflow-server-go/internal/domain/auth/session"
	"taskflow-server-go/internal/domain/eventbus"
	"taskflow-server-go/internal/models"
)

// UserDirectory is the credential collaborator: account creation and
// password verification live outside this package.
type UserDirectory interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Logger is the minimal logging contract this package needs.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Grant is a successful issuance. Degraded marks grants whose revocation
// entry could not be recorded: the login succeeded, but the token cannot be
// revoked before its natural expiry.
type Grant struct {
	User     *models.User
	Token    string
	Degraded bool
}

// Service is the producer side of a session: it validates credentials,
// issues tokens and registers them in the revocation store.
type Service struct {
	codec    *TokenCodec
	sessions *session.Provider
	users    UserDirectory
	logger   Logger
	bus      *eventbus.Bus
}

// NewService wires an auth service. The bus may be nil in tests.
func NewService(
	codec *TokenCodec,
	sessions *session.Provider,
	users UserDirectory,
	logger Logger,
	bus *eventbus.Bus,
) *Service {
	return &Service{
		codec:    codec,
		sessions: sessions,
		users:    users,
		logger:   logger,
		bus:      bus,
	}
}

// Codec exposes the token codec for the transport middleware.
func (s *Service) Codec() *TokenCodec {
	return s.codec
}

// Sessions exposes the store provider for the transport middleware.
func (s *Service) Sessions() *session.Provider {
	return s.sessions
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Grant, error) {
	account, err := s.users.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	grant, err := s.grant(ctx, account)
	if err != nil {
		return nil, err
	}
	s.publishAuth(eventbus.TopicUserRegistered, grant)
	return grant, nil
}

// CreateAdmin creates an admin account and logs it in.
func (s *Service) CreateAdmin(ctx context.Context, name, email, password string) (*Grant, error) {
	account, err := s.users.CreateAdmin(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	grant, err := s.grant(ctx, account)
	if err != nil {
		return nil, err
	}
	s.publishAuth(eventbus.TopicUserRegistered, grant)
	return grant, nil
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*Grant, error) {
	account, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	grant, err := s.grant(ctx, account)
	if err != nil {
		return nil, err
	}
	s.publishAuth(eventbus.TopicUserLoggedIn, grant)
	return grant, nil
}

// grant issues a token and best-effort registers it in the revocation store.
// A store failure is logged and swallowed: a user must not be locked out of
// login by a revocation-store outage.
func (s *Service) grant(ctx context.Context, account *models.User) (*Grant, error) {
	token, err := s.codec.Issue(account.ID, account.Role)
	if err != nil {
		return nil, err
	}

	degraded := false
	claims, err := s.codec.DecodeUnchecked(token)
	if err == nil {
		ttl := claims.StoreTTL(time.Now())
		store := s.sessions.Store(ctx)
		if err := store.Set(ctx, session.TokenKey(token), account.ID, ttl); err != nil {
			s.logger.Warn("could not record token in session store: %v", err)
			degraded = true
		}
	} else {
		s.logger.Warn("could not decode freshly issued token: %v", err)
		degraded = true
	}

	return &Grant{User: account, Token: token, Degraded: degraded}, nil
}

// Logout deletes the token's revocation entry, invalidating it immediately.
// Store failures are logged and swallowed; the client discards the token
// either way.
func (s *Service) Logout(ctx context.Context, token string) {
	store := s.sessions.Store(ctx)
	if err := store.Delete(ctx, session.TokenKey(token)); err != nil {
		s.logger.Warn("could not delete token from session store: %v", err)
	}
	if s.bus != nil {
		claims, err := s.codec.DecodeUnchecked(token)
		if err != nil {
			return
		}
		s.bus.Publish(eventbus.TopicUserLoggedOut, eventbus.AuthEvent{
			UserID: claims.SubjectID(),
			Role:   claims.Role,
			At:     time.Now(),
		})
	}
}

// CurrentUser resolves the account behind an authenticated subject id.
func (s *Service) CurrentUser(ctx context.Context, subjectID string) (*models.User, error) {
	return s.users.GetByID(ctx, subjectID)
}

func (s *Service) publishAuth(topic string, grant *Grant) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(topic, eventbus.AuthEvent{
		UserID:   grant.User.ID,
		Email:    grant.User.Email,
		Role:     grant.User.Role,
		Degraded: grant.Degraded,
		At:       time.Now(),
	})
}
