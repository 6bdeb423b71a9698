package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/model/auth"
)

type fakeResolver struct {
	user  *auth.User
	err   error
	calls int
}

func (f *fakeResolver) Me(_ context.Context, token string) (*auth.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func TestBootstrapResolvesPersistedToken(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Write("abc")
	resolver := &fakeResolver{user: &auth.User{ID: "u1", Name: "Test"}}

	store, err := NewStore(storage, resolver, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Snapshot().State != StateResolving {
		t.Fatal("expected resolving state before bootstrap")
	}

	store.Bootstrap(context.Background())

	snap := store.Snapshot()
	if snap.State != StateAuthenticated {
		t.Fatalf("expected authenticated, got %v", snap.State)
	}
	if snap.Token != "abc" || snap.User == nil || snap.User.ID != "u1" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestBootstrapRejectedTokenIsDiscarded(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Write("stale")
	resolver := &fakeResolver{err: errors.New("401")}

	store, err := NewStore(storage, resolver, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Bootstrap(context.Background())

	snap := store.Snapshot()
	if snap.State != StateAnonymous || snap.Token != "" || snap.User != nil {
		t.Fatalf("expected anonymous empty session, got %+v", snap)
	}
	if persisted, _ := storage.Read(); persisted != "" {
		t.Fatalf("expected persisted token cleared, got %q", persisted)
	}
}

func TestBootstrapWithoutTokenIsAnonymous(t *testing.T) {
	resolver := &fakeResolver{}
	store, err := NewStore(NewMemoryStorage(), resolver, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Bootstrap(context.Background())
	if resolver.calls != 0 {
		t.Fatalf("expected no resolution without a token, got %d calls", resolver.calls)
	}
	if store.Snapshot().State != StateAnonymous {
		t.Fatal("expected anonymous state")
	}
}

func TestSetTokenCommitsTokenAndUserTogether(t *testing.T) {
	storage := NewMemoryStorage()
	resolver := &fakeResolver{user: &auth.User{ID: "u1", Name: "Test"}}
	store, _ := NewStore(storage, resolver, nil)

	user, err := store.SetToken(context.Background(), "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected user %+v", user)
	}

	snap := store.Snapshot()
	if snap.Token != "abc" || snap.User == nil {
		t.Fatalf("token and user must be set together, got %+v", snap)
	}
	if persisted, _ := storage.Read(); persisted != "abc" {
		t.Fatalf("expected token persisted, got %q", persisted)
	}
}

func TestSetTokenResolutionFailureDiscardsToken(t *testing.T) {
	storage := NewMemoryStorage()
	resolver := &fakeResolver{err: errors.New("403")}
	store, _ := NewStore(storage, resolver, nil)

	if _, err := store.SetToken(context.Background(), "bad"); err == nil {
		t.Fatal("expected resolution error")
	}

	snap := store.Snapshot()
	if snap.Token != "" || snap.User != nil {
		t.Fatalf("expected empty session after failure, got %+v", snap)
	}
	if persisted, _ := storage.Read(); persisted != "" {
		t.Fatalf("expected persisted token cleared, got %q", persisted)
	}
}

func TestClearTokenIsIdempotent(t *testing.T) {
	storage := NewMemoryStorage()
	resolver := &fakeResolver{user: &auth.User{ID: "u1"}}
	store, _ := NewStore(storage, resolver, nil)
	store.SetToken(context.Background(), "abc")

	store.ClearToken()
	store.ClearToken()

	snap := store.Snapshot()
	if snap.Token != "" || snap.User != nil || snap.State != StateAnonymous {
		t.Fatalf("expected cleared session, got %+v", snap)
	}
	if _, err := store.Token(); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	storage := NewFileStorage(path)

	if token, err := storage.Read(); err != nil || token != "" {
		t.Fatalf("expected empty read on missing file, got %q, %v", token, err)
	}

	if err := storage.Write("abc"); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	if token, _ := storage.Read(); token != "abc" {
		t.Fatalf("expected abc, got %q", token)
	}

	if err := storage.Clear(); err != nil {
		t.Fatalf("unexpected clear error: %v", err)
	}
	if err := storage.Clear(); err != nil {
		t.Fatalf("clear should be idempotent, got %v", err)
	}
	if token, _ := storage.Read(); token != "" {
		t.Fatalf("expected empty token after clear, got %q", token)
	}
}
