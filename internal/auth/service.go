package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kinderhomes/kinder-estate/internal/apperror"
)

// sessionKeyPrefix is the Redis key prefix for session data.
const sessionKeyPrefix = "session:"

// userSessionsKeyPrefix is the Redis key prefix for the per-user set of
// active session tokens, used by the session listing/revocation endpoints.
const userSessionsKeyPrefix = "user_sessions:"

// sessionTokenBytes is the number of random bytes in a session token.
// 32 bytes = 256 bits of entropy, hex-encoded to 64 characters.
const sessionTokenBytes = 32

// sessionIDPrefixLen is how many characters of a token the session listing
// exposes as an identifier. Enough to disambiguate a user's own sessions,
// far too short to reconstruct the token.
const sessionIDPrefixLen = 8

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository or Redis
// directly.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, input LoginInput) (token string, user *User, err error)
	ChangePassword(ctx context.Context, input ChangePasswordInput) error
	ValidateSession(ctx context.Context, token string) (*User, error)
	DestroySession(ctx context.Context, token string) error
	ListSessions(ctx context.Context, userID, currentToken string) ([]SessionInfo, error)
	RevokeSession(ctx context.Context, userID, sessionID string) error
}

// authService implements AuthService with argon2id hashing and Redis sessions.
type authService struct {
	repo         UserRepository
	redis        *redis.Client
	sessionTTL   time.Duration
	storeTimeout time.Duration
}

// NewAuthService creates a new auth service with the given dependencies.
// storeTimeout bounds every credential-store and session-store call.
func NewAuthService(repo UserRepository, rdb *redis.Client, sessionTTL, storeTimeout time.Duration) AuthService {
	return &authService{
		repo:         repo,
		redis:        rdb,
		sessionTTL:   sessionTTL,
		storeTimeout: storeTimeout,
	}
}

// boundCtx derives a context that expires after the configured store
// timeout, so a wedged MariaDB or Redis call surfaces as an error instead
// of hanging the request.
func (s *authService) boundCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

// storeErr classifies a store failure: deadline/cancellation becomes a
// dependency-unavailable error, a typed domain error passes through, and
// anything else becomes an internal error.
func storeErr(op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperror.NewUnavailable(fmt.Errorf("%s: %w", op, err))
	}
	return apperror.NewInternal(fmt.Errorf("%s: %w", op, err))
}

// Register creates a new account. It validates uniqueness, hashes the
// password with argon2id, and persists the user. Not idempotent: a second
// call with the same username fails with duplicate_username.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apperror.NewBadRequest("username is required")
	}
	if input.Password == "" {
		return nil, apperror.NewBadRequest("password is required")
	}

	// Check if the username is already taken before doing expensive hashing.
	cctx, cancel := s.boundCtx(ctx)
	exists, err := s.repo.UsernameExists(cctx, username)
	cancel()
	if err != nil {
		return nil, storeErr("checking username", err)
	}
	if exists {
		return nil, apperror.NewDuplicateUsername()
	}

	// Hash the password with argon2id (memory-hard, GPU-resistant).
	hash, err := hashPassword(input.Password)
	if err != nil {
		if errors.Is(err, ErrEmptyPassword) {
			return nil, apperror.NewBadRequest("password is required")
		}
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	cctx, cancel = s.boundCtx(ctx)
	err = s.repo.Create(cctx, user)
	cancel()
	if err != nil {
		// A duplicate-username error from the unique key passes through
		// here, catching a concurrent registration that raced past the
		// existence check.
		return nil, storeErr("creating user", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login authenticates a user by username and password. On success it creates
// a new session in Redis and returns the session token for the cookie.
//
// An unknown username and a wrong password return byte-identical errors so
// the response cannot be used to enumerate accounts. The distinction is
// logged server-side at debug level only.
func (s *authService) Login(ctx context.Context, input LoginInput) (string, *User, error) {
	cctx, cancel := s.boundCtx(ctx)
	user, err := s.repo.FindByUsername(cctx, strings.TrimSpace(input.Username))
	cancel()
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == 404 {
			slog.Debug("login failed: unknown username")
			return "", nil, apperror.NewInvalidCredentials()
		}
		return "", nil, storeErr("finding user", err)
	}

	// Verify the password against the stored argon2id hash.
	if !verifyPassword(input.Password, user.PasswordHash) {
		slog.Debug("login failed: password mismatch", slog.String("user_id", user.ID))
		return "", nil, apperror.NewInvalidCredentials()
	}

	// Create a new session in Redis. Repeated logins mint independent
	// sessions; earlier ones stay valid until expiry or logout.
	token, err := s.createSession(ctx, user)
	if err != nil {
		return "", nil, storeErr("creating session", err)
	}

	// Update the user's last login timestamp (fire-and-forget, non-critical).
	cctx, cancel = s.boundCtx(ctx)
	if err := s.repo.UpdateLastLogin(cctx, user.ID); err != nil {
		slog.Warn("failed to update last login",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}
	cancel()

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return token, user, nil
}

// ChangePassword re-authenticates with the old password and then atomically
// replaces the stored hash. Any mismatch -- unknown user or wrong old
// password -- yields the same invalid_credentials error.
func (s *authService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	cctx, cancel := s.boundCtx(ctx)
	user, err := s.repo.FindByUsername(cctx, strings.TrimSpace(input.Username))
	cancel()
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == 404 {
			return apperror.NewInvalidCredentials()
		}
		return storeErr("finding user", err)
	}

	if !verifyPassword(input.OldPassword, user.PasswordHash) {
		return apperror.NewInvalidCredentials()
	}

	hash, err := hashPassword(input.NewPassword)
	if err != nil {
		if errors.Is(err, ErrEmptyPassword) {
			return apperror.NewBadRequest("new password is required")
		}
		return apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	cctx, cancel = s.boundCtx(ctx)
	err = s.repo.UpdatePassword(cctx, user.ID, hash)
	cancel()
	if err != nil {
		return storeErr("updating password", err)
	}

	slog.Info("password changed", slog.String("user_id", user.ID))
	return nil
}

// ValidateSession resolves a session token to its user. A missing or
// expired entry (Redis TTL is the lazy eviction) yields not_authenticated.
// On a hit, the user is re-fetched from the credential store: a session
// never outlives its user, so a deleted account fail-safes to
// not_authenticated and the orphaned session is destroyed.
func (s *authService) ValidateSession(ctx context.Context, token string) (*User, error) {
	key := sessionKeyPrefix + token

	cctx, cancel := s.boundCtx(ctx)
	data, err := s.redis.Get(cctx, key).Bytes()
	cancel()
	if err == redis.Nil {
		return nil, apperror.NewNotAuthenticated()
	}
	if err != nil {
		return nil, storeErr("reading session from redis", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("unmarshaling session: %w", err))
	}

	cctx, cancel = s.boundCtx(ctx)
	user, err := s.repo.FindByID(cctx, session.UserID)
	cancel()
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == 404 {
			// The account is gone; don't hand back a stale principal.
			_ = s.DestroySession(ctx, token)
			slog.Info("session for deleted user destroyed",
				slog.String("user_id", session.UserID),
			)
			return nil, apperror.NewNotAuthenticated()
		}
		return nil, storeErr("resolving session user", err)
	}

	return user, nil
}

// DestroySession removes a session from Redis, effectively logging the user
// out. Idempotent: destroying an absent session is not an error.
func (s *authService) DestroySession(ctx context.Context, token string) error {
	key := sessionKeyPrefix + token

	// Read the session first so the user index can be pruned; a missing
	// entry still clears the key below for idempotency.
	cctx, cancel := s.boundCtx(ctx)
	defer cancel()

	if data, err := s.redis.Get(cctx, key).Bytes(); err == nil {
		var session Session
		if json.Unmarshal(data, &session) == nil {
			_ = s.redis.SRem(cctx, userSessionsKeyPrefix+session.UserID, token).Err()
		}
	}

	if err := s.redis.Del(cctx, key).Err(); err != nil {
		return storeErr("deleting session from redis", err)
	}

	return nil
}

// ListSessions returns the caller's active sessions, pruning index entries
// whose session key has already expired. currentToken marks which entry
// belongs to the request's own cookie.
func (s *authService) ListSessions(ctx context.Context, userID, currentToken string) ([]SessionInfo, error) {
	cctx, cancel := s.boundCtx(ctx)
	defer cancel()

	tokens, err := s.redis.SMembers(cctx, userSessionsKeyPrefix+userID).Result()
	if err != nil {
		return nil, storeErr("listing sessions", err)
	}

	infos := make([]SessionInfo, 0, len(tokens))
	for _, token := range tokens {
		key := sessionKeyPrefix + token

		data, err := s.redis.Get(cctx, key).Bytes()
		if err == redis.Nil {
			// The session expired; the set member outlived the key.
			_ = s.redis.SRem(cctx, userSessionsKeyPrefix+userID, token).Err()
			continue
		}
		if err != nil {
			return nil, storeErr("reading session from redis", err)
		}

		var session Session
		if err := json.Unmarshal(data, &session); err != nil {
			continue
		}

		ttl, err := s.redis.TTL(cctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = 0
		}

		infos = append(infos, SessionInfo{
			ID:        token[:min(sessionIDPrefixLen, len(token))],
			CreatedAt: session.CreatedAt,
			ExpiresAt: time.Now().UTC().Add(ttl),
			Current:   token == currentToken,
		})
	}

	return infos, nil
}

// RevokeSession destroys the caller's session whose token starts with the
// given listing ID. Only tokens in the caller's own index are considered,
// so one user can never revoke another's session.
func (s *authService) RevokeSession(ctx context.Context, userID, sessionID string) error {
	if sessionID == "" {
		return apperror.NewBadRequest("session id is required")
	}

	cctx, cancel := s.boundCtx(ctx)
	tokens, err := s.redis.SMembers(cctx, userSessionsKeyPrefix+userID).Result()
	cancel()
	if err != nil {
		return storeErr("listing sessions", err)
	}

	for _, token := range tokens {
		if strings.HasPrefix(token, sessionID) {
			return s.DestroySession(ctx, token)
		}
	}

	return apperror.NewNotFound("session not found")
}

// createSession generates a random session token, stores the session data in
// Redis with the configured TTL, and indexes it under the user's session set.
func (s *authService) createSession(ctx context.Context, user *User) (string, error) {
	token, err := generateSessionToken()
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}

	session := Session{
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshaling session: %w", err)
	}

	cctx, cancel := s.boundCtx(ctx)
	defer cancel()

	key := sessionKeyPrefix + token
	if err := s.redis.Set(cctx, key, data, s.sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("storing session in redis: %w", err)
	}

	// Index the token for the session listing endpoint. The set carries the
	// same TTL, refreshed on every login; stale members are pruned on read.
	indexKey := userSessionsKeyPrefix + user.ID
	if err := s.redis.SAdd(cctx, indexKey, token).Err(); err != nil {
		return "", fmt.Errorf("indexing session: %w", err)
	}
	if err := s.redis.Expire(cctx, indexKey, s.sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("expiring session index: %w", err)
	}

	return token, nil
}

// generateSessionToken creates a cryptographically random hex-encoded token.
func generateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
