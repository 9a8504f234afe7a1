package domain

import (
	"time"

	"github.com/google/uuid"
)

type Vote struct {
	ID              uuid.UUID `json:"id"`
	VoterID         string    `json:"voter_id"`
	PollID          int64     `json:"poll_id"`
	CreatedAt       time.Time `json:"created_at"`
	SelectedOptions []Option  `json:"selected_options"`
}

// VoteOptionLink associates a vote with one selected option.
type VoteOptionLink struct {
	VoteID   uuid.UUID `json:"vote_id"`
	OptionID uuid.UUID `json:"option_id"`
}

// UniqueVotePerPoll is the backend constraint guarding one vote per
// (voter, poll).
const UniqueVotePerPoll = "votes_voter_poll_key"
