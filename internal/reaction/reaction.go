// Package reaction holds the toggle state machine and count aggregation for
// emoji reactions and up/down votes. Like package thread, it is pure over
// snapshots; the service layer owns the single persistence mutation each
// toggle implies.
package reaction

import (
	"devhoc/internal/model"
)

// Outcome tags what a toggle did, which tells the caller how to refresh.
type Outcome int

const (
	// Created: no prior record existed, one was inserted.
	Created Outcome = iota
	// Removed: the identical reaction existed, it was deleted (un-react).
	Removed
	// Updated: a different emoji existed, it was replaced in place.
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Removed:
		return "removed"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

// Decide applies toggle semantics against the user's existing reaction on a
// target, if any. Reacting again with the same emoji removes it; a different
// emoji replaces it; otherwise a new record is created. Exactly one row is
// touched whatever the outcome.
func Decide(existing *model.Reaction, emoji string) Outcome {
	if existing == nil {
		return Created
	}
	if existing.Emoji == emoji {
		return Removed
	}
	return Updated
}

// DecideVote is the vote flavor of Decide: repeating the same direction
// removes the vote, the opposite direction flips the sign in place.
func DecideVote(existing *model.Vote, value int) Outcome {
	if existing == nil {
		return Created
	}
	if existing.Value == value {
		return Removed
	}
	return Updated
}

// View is the aggregate a client renders next to a target.
type View struct {
	Total     int64            `json:"total"`
	Breakdown map[string]int64 `json:"breakdown"` // only emojis with count > 0
	Mine      string           `json:"mine,omitempty"`
}

// Aggregate computes the reaction view for one target from its full record
// snapshot. viewerID may be empty for anonymous readers; Mine stays unset.
// Breakdown carries keys only for emojis that actually occur.
func Aggregate(records []model.Reaction, viewerID string) View {
	view := View{Breakdown: make(map[string]int64)}
	for i := range records {
		r := &records[i]
		view.Total++
		view.Breakdown[r.Emoji]++
		if viewerID != "" && r.UserID == viewerID {
			view.Mine = r.Emoji
		}
	}
	return view
}

// VoteTally is the numeric aggregate for up/down votes on one target.
type VoteTally struct {
	Score     int64 `json:"score"`
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	Mine      int   `json:"mine,omitempty"` // +1, -1, or 0 when the viewer has not voted
}

// TallyVotes sums a target's vote snapshot. Score is the signed sum; upvotes
// and downvotes are counted separately so the client can show both.
func TallyVotes(records []model.Vote, viewerID string) VoteTally {
	var tally VoteTally
	for i := range records {
		v := &records[i]
		tally.Score += int64(v.Value)
		switch {
		case v.Value > 0:
			tally.Upvotes++
		case v.Value < 0:
			tally.Downvotes++
		}
		if viewerID != "" && v.UserID == viewerID {
			tally.Mine = v.Value
		}
	}
	return tally
}
