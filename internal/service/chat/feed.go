// Package chat implements the client-side feed controller: full-list
// fetches reversed to chronological order, and message submission with a
// single-in-flight guard. Updates are eventually consistent by full
// replace; there is no local splicing or merge.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/model/chat"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/session"
)

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	ErrNotAuthed      = errors.New("not authenticated")
)

// API is the slice of the chat service client the feed needs.
type API interface {
	ListExchanges(ctx context.Context, token string) ([]chat.Exchange, error)
	SubmitMessage(ctx context.Context, token, message string) (*chat.Exchange, error)
}

// Feed fetches and submits exchanges, authorized via the session store.
type Feed struct {
	api     API
	session *session.Store
	log     *zap.Logger

	mu        sync.Mutex
	inFlight  bool
	exchanges []chat.Exchange
}

// NewFeed creates a feed controller bound to the session store.
func NewFeed(api API, sess *session.Store, log *zap.Logger) *Feed {
	if log == nil {
		log = zap.NewNop()
	}
	return &Feed{api: api, session: sess, log: log}
}

// Refresh fetches the full exchange list and returns it in chronological
// order (the service serves newest first). The previous list is kept on
// failure; last successful fetch wins.
func (f *Feed) Refresh(ctx context.Context) ([]chat.Exchange, error) {
	token, err := f.session.Token()
	if err != nil {
		return nil, ErrNotAuthed
	}

	fetched, err := f.api.ListExchanges(ctx, token)
	if err != nil {
		return nil, err
	}

	ordered := make([]chat.Exchange, len(fetched))
	for i, ex := range fetched {
		ordered[len(fetched)-1-i] = ex
	}

	f.mu.Lock()
	f.exchanges = ordered
	f.mu.Unlock()

	return ordered, nil
}

// Exchanges returns the last successfully fetched list, oldest first.
func (f *Feed) Exchanges() []chat.Exchange {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]chat.Exchange, len(f.exchanges))
	copy(out, f.exchanges)
	return out
}

// Submit sends the trimmed message. Empty input is rejected before any
// network call, and only one submission may be in flight at a time. On
// success the created exchange is returned; callers follow up with a
// Refresh rather than splicing it in locally.
func (f *Feed) Submit(ctx context.Context, text string) (*chat.Exchange, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	token, err := f.session.Token()
	if err != nil {
		return nil, ErrNotAuthed
	}

	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	f.inFlight = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	created, err := f.api.SubmitMessage(ctx, token, trimmed)
	if err != nil {
		return nil, err
	}

	f.log.Info("message submitted", zap.String("exchange", created.ID))
	return created, nil
}
