package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/model/auth"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/model/chat"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/session"
)

type fakeChatAPI struct {
	mu          sync.Mutex
	exchanges   []chat.Exchange
	listCalls   int
	submitCalls int
	block       chan struct{} // when set, SubmitMessage waits on it
}

func (f *fakeChatAPI) ListExchanges(_ context.Context, token string) ([]chat.Exchange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := make([]chat.Exchange, len(f.exchanges))
	copy(out, f.exchanges)
	return out, nil
}

func (f *fakeChatAPI) SubmitMessage(_ context.Context, token, message string) (*chat.Exchange, error) {
	f.mu.Lock()
	f.submitCalls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	created := chat.Exchange{ID: "new", Message: message, Answer: "ok", CreatedAt: time.Now()}
	f.mu.Lock()
	// Newest first, like the real service.
	f.exchanges = append([]chat.Exchange{created}, f.exchanges...)
	f.mu.Unlock()
	return &created, nil
}

type staticResolver struct{}

func (staticResolver) Me(_ context.Context, _ string) (*auth.User, error) {
	return &auth.User{ID: "u1", Name: "Test"}, nil
}

func authedFeed(t *testing.T, fake *fakeChatAPI) *Feed {
	t.Helper()
	store, err := session.NewStore(session.NewMemoryStorage(), staticResolver{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.SetToken(context.Background(), "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewFeed(fake, store, nil)
}

func TestRefreshReversesServiceOrder(t *testing.T) {
	fake := &fakeChatAPI{exchanges: []chat.Exchange{
		{ID: "e3", Message: "third"},
		{ID: "e2", Message: "second"},
		{ID: "e1", Message: "first"},
	}}
	feed := authedFeed(t, fake)

	ordered, err := feed.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ordered[0].ID != "e1" || ordered[2].ID != "e3" {
		t.Fatalf("expected chronological order, got %s..%s", ordered[0].ID, ordered[2].ID)
	}
	if got := feed.Exchanges(); len(got) != 3 || got[0].ID != "e1" {
		t.Fatalf("cached list mismatch: %+v", got)
	}
}

func TestRefreshWithoutTokenFailsBeforeNetwork(t *testing.T) {
	fake := &fakeChatAPI{}
	store, _ := session.NewStore(session.NewMemoryStorage(), staticResolver{}, nil)
	feed := NewFeed(fake, store, nil)

	if _, err := feed.Refresh(context.Background()); !errors.Is(err, ErrNotAuthed) {
		t.Fatalf("expected ErrNotAuthed, got %v", err)
	}
	if fake.listCalls != 0 {
		t.Fatal("no network call expected without a token")
	}
}

func TestSubmitRejectsEmptyInputBeforeNetwork(t *testing.T) {
	fake := &fakeChatAPI{}
	feed := authedFeed(t, fake)

	for _, input := range []string{"", "   ", "\t\n"} {
		if _, err := feed.Submit(context.Background(), input); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("input %q: expected ErrEmptyMessage, got %v", input, err)
		}
	}
	if fake.submitCalls != 0 {
		t.Fatalf("expected no network calls, got %d", fake.submitCalls)
	}
}

func TestSubmitTrimsAndReturnsCreatedExchange(t *testing.T) {
	fake := &fakeChatAPI{}
	feed := authedFeed(t, fake)

	created, err := feed.Submit(context.Background(), "  hello  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Message != "hello" {
		t.Fatalf("expected trimmed message, got %q", created.Message)
	}

	// The visible list is refreshed in full, not spliced locally.
	ordered, err := feed.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ordered) != 1 || ordered[0].Message != "hello" {
		t.Fatalf("expected refetched list with submission, got %+v", ordered)
	}
}

func TestSecondSubmitRejectedWhileFirstPending(t *testing.T) {
	fake := &fakeChatAPI{block: make(chan struct{})}
	feed := authedFeed(t, fake)

	firstDone := make(chan error, 1)
	go func() {
		_, err := feed.Submit(context.Background(), "first")
		firstDone <- err
	}()

	// Wait for the first submission to be in flight.
	deadline := time.After(2 * time.Second)
	for {
		fake.mu.Lock()
		inFlight := fake.submitCalls == 1
		fake.mu.Unlock()
		if inFlight {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first submission never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if _, err := feed.Submit(context.Background(), "second"); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	close(fake.block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	fake.mu.Lock()
	calls := fake.submitCalls
	fake.mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected exactly one network call during the pending window, got %d", calls)
	}
}
