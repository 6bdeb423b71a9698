package chat

import "time"

// Exchange is one prompt/reply round trip. Created server-side on
// submission; the client only appends and re-reads the full list.
type Exchange struct {
	ID        string    `json:"_id"`
	Message   string    `json:"message"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}
