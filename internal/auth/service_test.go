package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kinderhomes/kinder-estate/internal/apperror"
)

// --- Mock Repository ---

// mockUserRepo implements UserRepository for testing.
type mockUserRepo struct {
	createFn          func(ctx context.Context, user *User) error
	findByIDFn        func(ctx context.Context, id string) (*User, error)
	findByUsernameFn  func(ctx context.Context, username string) (*User, error)
	usernameExistsFn  func(ctx context.Context, username string) (bool, error)
	updatePasswordFn  func(ctx context.Context, userID, passwordHash string) error
	updateLastLoginFn func(ctx context.Context, id string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	if m.usernameExistsFn != nil {
		return m.usernameExistsFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, userID, passwordHash)
	}
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	if m.updateLastLoginFn != nil {
		return m.updateLastLoginFn(ctx, id)
	}
	return nil
}

// --- Test Helpers ---

// newTestAuthService creates an authService with a mock repo and an embedded
// miniredis instance for the session store.
func newTestAuthService(t *testing.T, repo *mockUserRepo) (*authService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return &authService{
		repo:         repo,
		redis:        rdb,
		sessionTTL:   24 * time.Hour,
		storeTimeout: 5 * time.Second,
	}, mr
}

// userFixture returns a user with a real argon2id hash of the given password.
func userFixture(t *testing.T, username, password string) *User {
	t.Helper()
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	return &User{
		ID:           "user-123",
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
}

// assertAppError checks that err is an *apperror.AppError with the expected
// code and type.
func assertAppError(t *testing.T, err error, expectedCode int, expectedType string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
	if appErr.Type != expectedType {
		t.Errorf("expected type %s, got %s", expectedType, appErr.Type)
	}
}

// --- Register Tests ---

func TestRegister_Success(t *testing.T) {
	repo := &mockUserRepo{
		usernameExistsFn: func(ctx context.Context, username string) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, user *User) error {
			if user.Username != "alice" {
				t.Errorf("expected username alice, got %s", user.Username)
			}
			if user.PasswordHash == "" {
				t.Error("expected password hash to be set")
			}
			if user.PasswordHash == "hunter2-correct" {
				t.Error("expected password to be hashed, not stored verbatim")
			}
			return nil
		},
	}

	svc, _ := newTestAuthService(t, repo)
	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Password: "hunter2-correct",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID == "" {
		t.Error("expected user ID to be generated")
	}
}

func TestRegister_TrimsUsername(t *testing.T) {
	var capturedUsername string
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *User) error {
			capturedUsername = user.Username
			return nil
		},
	}

	svc, _ := newTestAuthService(t, repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "  alice  ",
		Password: "hunter2-correct",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedUsername != "alice" {
		t.Errorf("expected trimmed username alice, got %q", capturedUsername)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := &mockUserRepo{
		usernameExistsFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}

	svc, _ := newTestAuthService(t, repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "taken",
		Password: "hunter2-correct",
	})
	assertAppError(t, err, 400, "duplicate_username")
}

func TestRegister_DuplicateRace(t *testing.T) {
	// The existence check passes, but the unique key catches a concurrent
	// registration at insert time. The typed error must pass through.
	repo := &mockUserRepo{
		usernameExistsFn: func(ctx context.Context, username string) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, user *User) error {
			return apperror.NewDuplicateUsername()
		},
	}

	svc, _ := newTestAuthService(t, repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "racer",
		Password: "hunter2-correct",
	})
	assertAppError(t, err, 400, "duplicate_username")
}

func TestRegister_EmptyFields(t *testing.T) {
	svc, _ := newTestAuthService(t, &mockUserRepo{})

	_, err := svc.Register(context.Background(), RegisterInput{Username: "", Password: "pw"})
	assertAppError(t, err, 400, "bad_request")

	_, err = svc.Register(context.Background(), RegisterInput{Username: "alice", Password: ""})
	assertAppError(t, err, 400, "bad_request")
}

func TestRegister_ExistenceCheckError(t *testing.T) {
	repo := &mockUserRepo{
		usernameExistsFn: func(ctx context.Context, username string) (bool, error) {
			return false, errors.New("db connection lost")
		},
	}

	svc, _ := newTestAuthService(t, repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Password: "hunter2-correct",
	})
	assertAppError(t, err, 500, "internal_error")
}

// --- Login Tests ---

func TestLogin_Success(t *testing.T) {
	user := userFixture(t, "alice", "hunter2-correct")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			if username != "alice" {
				t.Errorf("expected lookup of alice, got %s", username)
			}
			return user, nil
		},
	}

	svc, mr := newTestAuthService(t, repo)
	token, got, err := svc.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "hunter2-correct",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}
	// Token is 32 random bytes hex-encoded.
	if len(token) != 64 {
		t.Errorf("expected 64-char token, got %d chars", len(token))
	}
	// The session must exist in Redis under the token.
	if !mr.Exists(sessionKeyPrefix + token) {
		t.Error("expected session key in redis")
	}
	// And be indexed under the user's session set.
	members, err := mr.SMembers(userSessionsKeyPrefix + user.ID)
	if err != nil || len(members) != 1 || members[0] != token {
		t.Errorf("expected token in user session index, got %v (err: %v)", members, err)
	}
}

func TestLogin_RepeatedLoginsMintIndependentSessions(t *testing.T) {
	user := userFixture(t, "alice", "hunter2-correct")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
	}

	svc, _ := newTestAuthService(t, repo)
	input := LoginInput{Username: "alice", Password: "hunter2-correct"}

	token1, _, err := svc.Login(context.Background(), input)
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	token2, _, err := svc.Login(context.Background(), input)
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if token1 == token2 {
		t.Fatal("expected distinct tokens per login")
	}

	// The first session remains valid after the second login.
	repo.findByIDFn = func(ctx context.Context, id string) (*User, error) {
		return user, nil
	}
	if _, err := svc.ValidateSession(context.Background(), token1); err != nil {
		t.Errorf("expected first session to remain valid: %v", err)
	}
	if _, err := svc.ValidateSession(context.Background(), token2); err != nil {
		t.Errorf("expected second session to be valid: %v", err)
	}
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	// An unknown username and a wrong password must produce identical errors
	// so login responses cannot be used to probe for accounts.
	user := userFixture(t, "alice", "hunter2-correct")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			if username == "alice" {
				return user, nil
			}
			return nil, apperror.NewNotFound("user not found")
		},
	}

	svc, _ := newTestAuthService(t, repo)

	_, _, errUnknown := svc.Login(context.Background(), LoginInput{
		Username: "nobody", Password: "whatever",
	})
	_, _, errWrongPw := svc.Login(context.Background(), LoginInput{
		Username: "alice", Password: "wrong-password",
	})

	assertAppError(t, errUnknown, 401, "invalid_credentials")
	assertAppError(t, errWrongPw, 401, "invalid_credentials")
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("expected identical failure messages, got %q vs %q",
			errUnknown.Error(), errWrongPw.Error())
	}
}

func TestLogin_CaseSensitiveUsername(t *testing.T) {
	// The repository compares usernames byte-for-byte; "Alice" is not "alice".
	// The mock mirrors that contract.
	user := userFixture(t, "alice", "hunter2-correct")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			if username == "alice" {
				return user, nil
			}
			return nil, apperror.NewNotFound("user not found")
		},
	}

	svc, _ := newTestAuthService(t, repo)
	_, _, err := svc.Login(context.Background(), LoginInput{
		Username: "Alice", Password: "hunter2-correct",
	})
	assertAppError(t, err, 401, "invalid_credentials")
}

func TestLogin_LastLoginFailureIsNonFatal(t *testing.T) {
	user := userFixture(t, "alice", "hunter2-correct")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
		updateLastLoginFn: func(ctx context.Context, id string) error {
			return errors.New("db write error")
		},
	}

	svc, _ := newTestAuthService(t, repo)
	token, _, err := svc.Login(context.Background(), LoginInput{
		Username: "alice", Password: "hunter2-correct",
	})
	if err != nil {
		t.Fatalf("expected login to succeed despite last-login failure: %v", err)
	}
	if token == "" {
		t.Error("expected session token")
	}
}

// --- ChangePassword Tests ---

func TestChangePassword_Success(t *testing.T) {
	user := userFixture(t, "alice", "old-password-123")
	var updatedHash string
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
		updatePasswordFn: func(ctx context.Context, userID, passwordHash string) error {
			if userID != user.ID {
				t.Errorf("expected update for %s, got %s", user.ID, userID)
			}
			updatedHash = passwordHash
			return nil
		},
	}

	svc, _ := newTestAuthService(t, repo)
	err := svc.ChangePassword(context.Background(), ChangePasswordInput{
		Username:    "alice",
		OldPassword: "old-password-123",
		NewPassword: "new-password-456",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verifyPassword("new-password-456", updatedHash) {
		t.Error("expected new password to verify against stored hash")
	}
	if verifyPassword("old-password-123", updatedHash) {
		t.Error("expected old password to stop verifying")
	}
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	user := userFixture(t, "alice", "old-password-123")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
		updatePasswordFn: func(ctx context.Context, userID, passwordHash string) error {
			t.Error("password must not be updated when re-authentication fails")
			return nil
		},
	}

	svc, _ := newTestAuthService(t, repo)
	err := svc.ChangePassword(context.Background(), ChangePasswordInput{
		Username:    "alice",
		OldPassword: "wrong",
		NewPassword: "new-password-456",
	})
	assertAppError(t, err, 401, "invalid_credentials")
}

func TestChangePassword_UnknownUser(t *testing.T) {
	svc, _ := newTestAuthService(t, &mockUserRepo{})
	err := svc.ChangePassword(context.Background(), ChangePasswordInput{
		Username:    "nobody",
		OldPassword: "whatever",
		NewPassword: "new-password-456",
	})
	assertAppError(t, err, 401, "invalid_credentials")
}

// --- Session Lifecycle Tests ---

func TestValidateSession_RoundTrip(t *testing.T) {
	user := userFixture(t, "alice", "hunter2-correct")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
		findByIDFn: func(ctx context.Context, id string) (*User, error) {
			if id != user.ID {
				return nil, apperror.NewNotFound("user not found")
			}
			return user, nil
		},
	}

	svc, _ := newTestAuthService(t, repo)
	token, _, err := svc.Login(context.Background(), LoginInput{
		Username: "alice", Password: "hunter2-correct",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	got, err := svc.ValidateSession(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != user.ID || got.Username != "alice" {
		t.Errorf("expected session to resolve to alice, got %+v", got)
	}
}

func TestValidateSession_UnknownToken(t *testing.T) {
	svc, _ := newTestAuthService(t, &mockUserRepo{})
	_, err := svc.ValidateSession(context.Background(), "no-such-token")
	assertAppError(t, err, 401, "not_authenticated")
}

func TestValidateSession_Expired(t *testing.T) {
	user := userFixture(t, "alice", "hunter2-correct")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
		findByIDFn: func(ctx context.Context, id string) (*User, error) {
			return user, nil
		},
	}

	svc, mr := newTestAuthService(t, repo)
	token, _, err := svc.Login(context.Background(), LoginInput{
		Username: "alice", Password: "hunter2-correct",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Advance past the 24h TTL; Redis evicts the key.
	mr.FastForward(25 * time.Hour)

	_, err = svc.ValidateSession(context.Background(), token)
	assertAppError(t, err, 401, "not_authenticated")
}

func TestValidateSession_DeletedUser(t *testing.T) {
	// A session must never outlive its user: resolving a session whose
	// account is gone fails closed and destroys the orphaned session.
	user := userFixture(t, "alice", "hunter2-correct")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
		findByIDFn: func(ctx context.Context, id string) (*User, error) {
			return nil, apperror.NewNotFound("user not found")
		},
	}

	svc, mr := newTestAuthService(t, repo)
	token, _, err := svc.Login(context.Background(), LoginInput{
		Username: "alice", Password: "hunter2-correct",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	_, err = svc.ValidateSession(context.Background(), token)
	assertAppError(t, err, 401, "not_authenticated")

	if mr.Exists(sessionKeyPrefix + token) {
		t.Error("expected orphaned session to be destroyed")
	}
}

func TestDestroySession(t *testing.T) {
	user := userFixture(t, "alice", "hunter2-correct")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
	}

	svc, mr := newTestAuthService(t, repo)
	token, _, err := svc.Login(context.Background(), LoginInput{
		Username: "alice", Password: "hunter2-correct",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.DestroySession(context.Background(), token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.Exists(sessionKeyPrefix + token) {
		t.Error("expected session key to be deleted")
	}
	if members, _ := mr.SMembers(userSessionsKeyPrefix + user.ID); len(members) != 0 {
		t.Errorf("expected session index to be pruned, got %v", members)
	}

	// Destroying a missing session is idempotent.
	if err := svc.DestroySession(context.Background(), token); err != nil {
		t.Errorf("expected idempotent destroy, got: %v", err)
	}

	_, err = svc.ValidateSession(context.Background(), token)
	assertAppError(t, err, 401, "not_authenticated")
}

// --- Session Listing Tests ---

func TestListSessions(t *testing.T) {
	user := userFixture(t, "alice", "hunter2-correct")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
	}

	svc, _ := newTestAuthService(t, repo)
	input := LoginInput{Username: "alice", Password: "hunter2-correct"}

	token1, _, err := svc.Login(context.Background(), input)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	token2, _, err := svc.Login(context.Background(), input)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	infos, err := svc.ListSessions(context.Background(), user.ID, token2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(infos))
	}

	var sawCurrent bool
	for _, info := range infos {
		if len(info.ID) != sessionIDPrefixLen {
			t.Errorf("expected %d-char session ID, got %q", sessionIDPrefixLen, info.ID)
		}
		if info.ID == token1 || info.ID == token2 {
			t.Error("listing must not expose full tokens")
		}
		if info.ExpiresAt.Before(info.CreatedAt) {
			t.Errorf("expected expiry after creation, got %v < %v", info.ExpiresAt, info.CreatedAt)
		}
		if info.Current {
			if sawCurrent {
				t.Error("expected exactly one current session")
			}
			sawCurrent = true
			if info.ID != token2[:sessionIDPrefixLen] {
				t.Errorf("expected current session to match the caller's token")
			}
		}
	}
	if !sawCurrent {
		t.Error("expected the caller's session to be flagged current")
	}
}

func TestListSessions_PrunesExpired(t *testing.T) {
	user := userFixture(t, "alice", "hunter2-correct")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
	}

	svc, mr := newTestAuthService(t, repo)
	input := LoginInput{Username: "alice", Password: "hunter2-correct"}

	token1, _, err := svc.Login(context.Background(), input)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Expire the first session's key but leave its index member behind, as
	// happens between Redis evicting the key and the next read.
	mr.Del(sessionKeyPrefix + token1)

	token2, _, err := svc.Login(context.Background(), input)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	infos, err := svc.ListSessions(context.Background(), user.ID, token2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected 1 live session, got %d", len(infos))
	}

	// The dead member should be gone from the index.
	members, _ := mr.SMembers(userSessionsKeyPrefix + user.ID)
	if len(members) != 1 || members[0] != token2 {
		t.Errorf("expected index pruned to live token, got %v", members)
	}
}

func TestRevokeSession(t *testing.T) {
	user := userFixture(t, "alice", "hunter2-correct")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
	}

	svc, mr := newTestAuthService(t, repo)
	token, _, err := svc.Login(context.Background(), LoginInput{
		Username: "alice", Password: "hunter2-correct",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	err = svc.RevokeSession(context.Background(), user.ID, token[:sessionIDPrefixLen])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.Exists(sessionKeyPrefix + token) {
		t.Error("expected revoked session to be deleted")
	}
}

func TestRevokeSession_OtherUser(t *testing.T) {
	// Only tokens in the caller's own index are considered: a different user
	// ID cannot revoke the session even with the right prefix.
	user := userFixture(t, "alice", "hunter2-correct")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
	}

	svc, mr := newTestAuthService(t, repo)
	token, _, err := svc.Login(context.Background(), LoginInput{
		Username: "alice", Password: "hunter2-correct",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	err = svc.RevokeSession(context.Background(), "other-user", token[:sessionIDPrefixLen])
	assertAppError(t, err, 404, "not_found")
	if !mr.Exists(sessionKeyPrefix + token) {
		t.Error("expected session to survive a foreign revoke attempt")
	}
}

func TestRevokeSession_EmptyID(t *testing.T) {
	svc, _ := newTestAuthService(t, &mockUserRepo{})
	err := svc.RevokeSession(context.Background(), "user-123", "")
	assertAppError(t, err, 400, "bad_request")
}

// --- Store Failure Tests ---

func TestLogin_SessionStoreDown(t *testing.T) {
	user := userFixture(t, "alice", "hunter2-correct")
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return user, nil
		},
	}

	svc, mr := newTestAuthService(t, repo)
	mr.Close()

	_, _, err := svc.Login(context.Background(), LoginInput{
		Username: "alice", Password: "hunter2-correct",
	})
	if err == nil {
		t.Fatal("expected error when session store is down")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 500 {
		t.Errorf("expected 500 error, got %v", err)
	}
}

func TestValidateSession_StoreDown(t *testing.T) {
	svc, mr := newTestAuthService(t, &mockUserRepo{})
	mr.Close()

	_, err := svc.ValidateSession(context.Background(), "any-token")
	if err == nil {
		t.Fatal("expected error when session store is down")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code != 500 {
		t.Errorf("expected 500 error, got %v", err)
	}
	if appErr.Type == "not_authenticated" {
		t.Error("a store failure must not masquerade as a missing session")
	}
}

// --- Token Generation Tests ---

func TestGenerateSessionToken(t *testing.T) {
	token, err := generateSessionToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 32 bytes hex-encoded.
	if len(token) != 64 {
		t.Errorf("expected 64-char token, got %d chars", len(token))
	}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := generateSessionToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[tok] {
			t.Fatalf("token collision after %d iterations", i)
		}
		seen[tok] = true
	}
}
