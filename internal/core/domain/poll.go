package domain

import (
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	MultipleChoice bool       `json:"multiple_choice"`
	Anonymous      bool       `json:"anonymous"`
	CreatedAt      time.Time  `json:"created_at"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	AuthorID       *string    `json:"author_id"`
	Options        []Option   `json:"options"`
}

// ClosedAt reports whether voting is closed at now. A poll closes at the
// instant it expires.
func (p *Poll) ClosedAt(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

type Option struct {
	ID         uuid.UUID `json:"id"`
	PollID     int64     `json:"poll_id"`
	Title      string    `json:"title"`
	VoteCount  int64     `json:"vote_count"`
	Percentage float64   `json:"percentage"`
}

type PollOptionStats struct {
	VoteCount  int64
	Percentage float64
}
