package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/api"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/model/auth"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/session"
)

// fakeAPI satisfies both the auth API surface and session.IdentityResolver.
type fakeAPI struct {
	loginToken string
	loginErr   error
	user       *auth.User
	meErr      error
	calls      map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: make(map[string]int)}
}

func (f *fakeAPI) Login(_ context.Context, _, _ string) (string, error) {
	f.calls["login"]++
	return f.loginToken, f.loginErr
}

func (f *fakeAPI) Register(_ context.Context, _, _, _, _ string) (string, error) {
	f.calls["register"]++
	return "user-1", nil
}

func (f *fakeAPI) GoogleLogin(_ context.Context, _ string) (string, error) {
	f.calls["google"]++
	return f.loginToken, f.loginErr
}

func (f *fakeAPI) VerifyEmail(_ context.Context, _, _ string) (string, error) {
	f.calls["verify"]++
	return f.loginToken, f.loginErr
}

func (f *fakeAPI) ForgotPassword(_ context.Context, _ string) error {
	f.calls["forgot"]++
	return nil
}

func (f *fakeAPI) ResetPassword(_ context.Context, _, _, _ string) error {
	f.calls["reset"]++
	return nil
}

func (f *fakeAPI) Me(_ context.Context, _ string) (*auth.User, error) {
	f.calls["me"]++
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.user, nil
}

func newTestService(fake *fakeAPI) (*Service, *session.Store) {
	store, _ := session.NewStore(session.NewMemoryStorage(), fake, nil)
	return NewService(fake, store, nil), store
}

func TestLoginStoresTokenAndResolvesIdentity(t *testing.T) {
	fake := newFakeAPI()
	fake.loginToken = "abc"
	fake.user = &auth.User{ID: "u1", Name: "Test"}
	svc, store := newTestService(fake)

	user, err := svc.Login(context.Background(), "u@test.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected user %+v", user)
	}

	snap := store.Snapshot()
	if snap.Token != "abc" || snap.User == nil || snap.User.Name != "Test" {
		t.Fatalf("unexpected session %+v", snap)
	}
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	fake := newFakeAPI()
	fake.loginErr = &api.Error{Status: 401, Message: "Invalid credentials"}
	svc, store := newTestService(fake)

	_, err := svc.Login(context.Background(), "u@test.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := api.UserMessage(err, "Login failed"); got != "Invalid credentials" {
		t.Fatalf("unexpected message %q", got)
	}

	snap := store.Snapshot()
	if snap.Token != "" || snap.User != nil {
		t.Fatalf("session must be untouched on failure, got %+v", snap)
	}
	if fake.calls["me"] != 0 {
		t.Fatal("identity resolution must not run after a failed login")
	}
}

func TestLoginRejectsEmptyCredentialsLocally(t *testing.T) {
	fake := newFakeAPI()
	svc, _ := newTestService(fake)

	if _, err := svc.Login(context.Background(), "  ", ""); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if fake.calls["login"] != 0 {
		t.Fatal("no network call expected for empty credentials")
	}
}

func TestRegisterDoesNotMutateSession(t *testing.T) {
	fake := newFakeAPI()
	svc, store := newTestService(fake)

	userID, err := svc.Register(context.Background(), "Test", "u@test.com", "", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("unexpected user id %q", userID)
	}

	snap := store.Snapshot()
	if snap.Token != "" || snap.User != nil {
		t.Fatalf("registration must not touch the session, got %+v", snap)
	}
}

func TestVerifyEmailRequiresRegistrationContext(t *testing.T) {
	fake := newFakeAPI()
	svc, _ := newTestService(fake)

	if _, err := svc.VerifyEmail(context.Background(), "", "123456"); !errors.Is(err, ErrMissingContext) {
		t.Fatalf("expected ErrMissingContext, got %v", err)
	}
	if fake.calls["verify"] != 0 {
		t.Fatal("no network call expected without registration context")
	}
}

func TestResetPasswordMismatchNeverReachesNetwork(t *testing.T) {
	fake := newFakeAPI()
	svc, _ := newTestService(fake)

	err := svc.ResetPassword(context.Background(), "u@test.com", "123456", "new", "different")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if fake.calls["reset"] != 0 {
		t.Fatal("no network call expected on password mismatch")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	fake := newFakeAPI()
	fake.loginToken = "abc"
	fake.user = &auth.User{ID: "u1"}
	svc, store := newTestService(fake)

	svc.Login(context.Background(), "u@test.com", "secret")
	svc.Logout()
	svc.Logout()

	snap := store.Snapshot()
	if snap.Token != "" || snap.User != nil {
		t.Fatalf("expected empty session after logout, got %+v", snap)
	}
}
