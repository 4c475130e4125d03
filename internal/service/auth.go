package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/shop_api/internal/hash"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/mykafka"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Hasher hash.Hasher
	Secret []byte
	TTL    time.Duration
	Events mykafka.Publisher

	// Now defaults to time.Now.
	Now func() time.Time
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	UserID    uint
}

// Identity is the user a request's session resolved to.
type Identity struct {
	UserID    uint
	Username  string
	SessionID string
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) ttl() time.Duration {
	if s.TTL <= 0 {
		return 24 * time.Hour
	}
	return s.TTL
}

func (s *AuthService) hasher() hash.Hasher {
	if s.Hasher == nil {
		return hash.Plain{}
	}
	return s.Hasher
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", username)

	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", ErrValidation)
	}

	stored, err := s.hasher().HashPassword(password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{Username: username, Password: stored}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, fmt.Errorf("user %q: %w", username, ErrConflict)
		}
		return nil, err
	}

	publish(ctx, s.Events, mykafka.TopicUserEvents, user.ID, Event{Type: EventUserRegistered, UserID: user.ID})
	return user, nil
}

// Login verifies credentials and opens a new server-side session. Unknown
// users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher().CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if n, err := s.Repo.DeleteExpiredSessions(ctx, user.ID, now); err != nil {
		l.Warn("purge_sessions_failed", "error", err)
	} else if n > 0 {
		l.Debug("purged_sessions", "count", n)
	}

	jti := tokens.NewJTI()
	exp := now.Add(s.ttl())
	token, err := tokens.SignSession(s.Secret, user.ID, jti, now, exp)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	sess := &models.Session{
		JTI:       jti,
		UserID:    user.ID,
		TokenHash: tokens.Sha256Hex(token),
		ExpiresAt: exp.Unix(),
	}
	if err := s.Repo.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	publish(ctx, s.Events, mykafka.TopicUserEvents, user.ID, Event{Type: EventUserLoggedIn, UserID: user.ID})
	return &LoginResult{Token: token, ExpiresAt: exp, UserID: user.ID}, nil
}

// Authenticate resolves a session cookie value to the owning user. Every
// failure that is the client's fault is reported as ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("no session: %w", ErrUnauthorized)
	}

	claims, err := tokens.SessionClaimsFromToken(token, s.Secret)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrUnauthorized)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrUnauthorized)
	}

	sess, err := s.Repo.FindSessionByJTI(ctx, claims.ID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("unknown session: %w", ErrUnauthorized)
		}
		return nil, err
	}
	if sess.UserID != userID {
		return nil, fmt.Errorf("session owner mismatch: %w", ErrUnauthorized)
	}
	if !sess.Active(s.now()) {
		return nil, fmt.Errorf("session revoked or expired: %w", ErrUnauthorized)
	}
	if subtle.ConstantTimeCompare([]byte(sess.TokenHash), []byte(tokens.Sha256Hex(token))) != 1 {
		return nil, fmt.Errorf("session token mismatch: %w", ErrUnauthorized)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("session user gone: %w", ErrUnauthorized)
		}
		return nil, err
	}

	return &Identity{UserID: user.ID, Username: user.Username, SessionID: sess.JTI}, nil
}

func (s *AuthService) Logout(ctx context.Context, id Identity) error {
	if err := s.Repo.RevokeSession(ctx, id.SessionID); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("session already closed: %w", ErrUnauthorized)
		}
		return err
	}
	publish(ctx, s.Events, mykafka.TopicUserEvents, id.UserID, Event{Type: EventUserLoggedOut, UserID: id.UserID})
	return nil
}

// SeedUsers creates the "username:password" pairs that do not exist yet and
// reports how many were created.
func (s *AuthService) SeedUsers(ctx context.Context, pairs []string) (int, error) {
	created := 0
	for _, pair := range pairs {
		username, password, ok := strings.Cut(pair, ":")
		username = strings.TrimSpace(username)
		if !ok || username == "" || password == "" {
			return created, fmt.Errorf("seed entry %q is not username:password: %w", pair, ErrValidation)
		}

		stored, err := s.hasher().HashPassword(password)
		if err != nil {
			return created, err
		}
		err = s.Repo.CreateUserIfNotExists(ctx, &models.User{Username: username, Password: stored})
		switch {
		case err == nil:
			created++
		case errors.Is(err, repo.ErrUserAlreadyExist):
		default:
			return created, err
		}
	}
	return created, nil
}
