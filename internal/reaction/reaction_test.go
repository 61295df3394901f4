package reaction

import (
	"reflect"
	"testing"

	"devhoc/internal/model"
)

func TestDecide(t *testing.T) {
	existing := &model.Reaction{UserID: "u1", TargetType: model.TargetTypePost, TargetID: "p1", Emoji: model.EmojiLike}

	tests := []struct {
		name     string
		existing *model.Reaction
		emoji    string
		want     Outcome
	}{
		{"no prior reaction creates", nil, model.EmojiLike, Created},
		{"same emoji removes", existing, model.EmojiLike, Removed},
		{"different emoji updates", existing, model.EmojiLove, Updated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.existing, tt.emoji); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecideVote(t *testing.T) {
	up := &model.Vote{UserID: "u1", TargetType: model.TargetTypePost, TargetID: "p1", Value: model.VoteUp}

	if got := DecideVote(nil, model.VoteUp); got != Created {
		t.Errorf("DecideVote(nil) = %v, want Created", got)
	}
	if got := DecideVote(up, model.VoteUp); got != Removed {
		t.Errorf("repeat vote = %v, want Removed", got)
	}
	if got := DecideVote(up, model.VoteDown); got != Updated {
		t.Errorf("flipped vote = %v, want Updated", got)
	}
}

// Drives the state machine through a toggle sequence the way the service
// layer does, asserting at most one live record ever exists per user/target.
func TestToggleSequenceKeepsAtMostOneRecord(t *testing.T) {
	var existing *model.Reaction

	apply := func(emoji string) Outcome {
		outcome := Decide(existing, emoji)
		switch outcome {
		case Created:
			existing = &model.Reaction{UserID: "u1", TargetType: model.TargetTypePost, TargetID: "p1", Emoji: emoji}
		case Removed:
			existing = nil
		case Updated:
			existing.Emoji = emoji
		}
		return outcome
	}

	steps := []struct {
		emoji       string
		wantOutcome Outcome
		wantEmoji   string // "" means no record
	}{
		{model.EmojiLike, Created, model.EmojiLike},
		{model.EmojiLike, Removed, ""},
		{model.EmojiLike, Created, model.EmojiLike},
		{model.EmojiLove, Updated, model.EmojiLove},
		{model.EmojiFire, Updated, model.EmojiFire},
		{model.EmojiFire, Removed, ""},
	}
	for i, step := range steps {
		if got := apply(step.emoji); got != step.wantOutcome {
			t.Fatalf("step %d: outcome = %v, want %v", i, got, step.wantOutcome)
		}
		if step.wantEmoji == "" && existing != nil {
			t.Fatalf("step %d: expected no record, have %+v", i, existing)
		}
		if step.wantEmoji != "" && (existing == nil || existing.Emoji != step.wantEmoji) {
			t.Fatalf("step %d: record = %+v, want emoji %s", i, existing, step.wantEmoji)
		}
	}
}

func TestAggregate(t *testing.T) {
	records := []model.Reaction{
		{UserID: "u1", Emoji: model.EmojiLike},
		{UserID: "u2", Emoji: model.EmojiLike},
		{UserID: "u3", Emoji: model.EmojiLove},
	}

	view := Aggregate(records, "u3")
	if view.Total != 3 {
		t.Errorf("Total = %d, want 3", view.Total)
	}
	wantBreakdown := map[string]int64{model.EmojiLike: 2, model.EmojiLove: 1}
	if !reflect.DeepEqual(view.Breakdown, wantBreakdown) {
		t.Errorf("Breakdown = %v, want %v", view.Breakdown, wantBreakdown)
	}
	if view.Mine != model.EmojiLove {
		t.Errorf("Mine = %q, want %q", view.Mine, model.EmojiLove)
	}
}

func TestAggregateAnonymousViewer(t *testing.T) {
	records := []model.Reaction{{UserID: "u1", Emoji: model.EmojiWow}}

	view := Aggregate(records, "")
	if view.Mine != "" {
		t.Errorf("Mine = %q for anonymous viewer, want empty", view.Mine)
	}
	if view.Total != 1 || view.Breakdown[model.EmojiWow] != 1 {
		t.Errorf("unexpected view: %+v", view)
	}
}

func TestAggregateEmpty(t *testing.T) {
	view := Aggregate(nil, "u1")
	if view.Total != 0 || len(view.Breakdown) != 0 || view.Mine != "" {
		t.Errorf("empty snapshot should yield zero view, got %+v", view)
	}
}

// After reacting and un-reacting, the snapshot is empty and total is zero.
func TestAggregateAfterNetRemoval(t *testing.T) {
	var existing *model.Reaction
	records := func() []model.Reaction {
		if existing == nil {
			return nil
		}
		return []model.Reaction{*existing}
	}

	existing = &model.Reaction{UserID: "u1", TargetType: model.TargetTypePost, TargetID: "p1", Emoji: model.EmojiWow}
	if Decide(existing, model.EmojiWow) != Removed {
		t.Fatal("expected second identical reaction to remove")
	}
	existing = nil

	if view := Aggregate(records(), "u1"); view.Total != 0 {
		t.Errorf("Total = %d after net removal, want 0", view.Total)
	}
}

func TestTallyVotes(t *testing.T) {
	records := []model.Vote{
		{UserID: "u1", Value: model.VoteUp},
		{UserID: "u2", Value: model.VoteUp},
		{UserID: "u3", Value: model.VoteDown},
	}

	tally := TallyVotes(records, "u3")
	if tally.Upvotes != 2 || tally.Downvotes != 1 || tally.Score != 1 {
		t.Errorf("tally = %+v, want upvotes=2 downvotes=1 score=1", tally)
	}
	if tally.Mine != model.VoteDown {
		t.Errorf("Mine = %d, want %d", tally.Mine, model.VoteDown)
	}
}

func TestTallyVotesEmpty(t *testing.T) {
	tally := TallyVotes(nil, "")
	if tally.Score != 0 || tally.Upvotes != 0 || tally.Downvotes != 0 || tally.Mine != 0 {
		t.Errorf("empty tally = %+v, want zeros", tally)
	}
}
