package thread

import (
	"encoding/json"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"devhoc/internal/model"
)

func comment(id, postID string, parent *string, createdAt time.Time) model.Comment {
	return model.Comment{
		ID:        id,
		PostID:    postID,
		UserID:    "user-1",
		ParentID:  parent,
		Content:   "content " + id,
		CreatedAt: createdAt,
	}
}

func ptr(s string) *string { return &s }

func TestBuildEmptyInput(t *testing.T) {
	forest := Build(nil)
	if len(forest) != 0 {
		t.Fatalf("expected empty forest, got %d roots", len(forest))
	}
}

func TestBuildSingleCommentWithReply(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	forest := Build([]model.Comment{
		comment("c1", "p1", nil, t1),
		comment("c2", "p1", ptr("c1"), t2),
	})

	if len(forest) != 1 {
		t.Fatalf("expected 1 root, got %d", len(forest))
	}
	root := forest[0]
	if root.ID != "c1" || len(root.Replies) != 1 {
		t.Fatalf("unexpected root: id=%s replies=%d", root.ID, len(root.Replies))
	}
	if root.Replies[0].ID != "c2" || len(root.Replies[0].Replies) != 0 {
		t.Fatalf("unexpected reply: %+v", root.Replies[0])
	}
}

func TestBuildPartitionsInput(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []model.Comment{
		comment("a", "p1", nil, base),
		comment("b", "p1", ptr("a"), base.Add(1*time.Minute)),
		comment("c", "p1", ptr("a"), base.Add(2*time.Minute)),
		comment("d", "p1", ptr("b"), base.Add(3*time.Minute)),
		comment("e", "p1", nil, base.Add(4*time.Minute)),
		comment("f", "p1", ptr("e"), base.Add(5*time.Minute)),
	}

	forest := Build(records)
	if got := Count(forest); got != len(records) {
		t.Fatalf("Count() = %d, want %d", got, len(records))
	}

	ids := make(map[string]int)
	for _, n := range Flatten(forest) {
		ids[n.ID]++
	}
	for _, r := range records {
		if ids[r.ID] != 1 {
			t.Errorf("record %s appears %d times, want exactly once", r.ID, ids[r.ID])
		}
	}
}

func TestBuildRootIDResolvesTopAncestor(t *testing.T) {
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	forest := Build([]model.Comment{
		comment("root", "p1", nil, base),
		comment("a", "p1", ptr("root"), base.Add(time.Minute)),
		comment("b", "p1", ptr("a"), base.Add(2*time.Minute)),
	})

	if len(forest) != 1 {
		t.Fatalf("expected 1 root, got %d", len(forest))
	}
	for _, n := range Flatten(forest) {
		if n.RootID != "root" {
			t.Errorf("node %s RootID = %s, want root", n.ID, n.RootID)
		}
	}
}

func TestBuildDanglingParentBecomesRoot(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	forest := Build([]model.Comment{
		comment("c1", "p1", ptr("missing"), t1),
	})

	if len(forest) != 1 {
		t.Fatalf("expected orphan to become a root, got %d roots", len(forest))
	}
	if forest[0].ID != "c1" || forest[0].RootID != "c1" || len(forest[0].Replies) != 0 {
		t.Fatalf("unexpected orphan node: %+v", forest[0])
	}
}

func TestBuildSelfReferenceBecomesRoot(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	forest := Build([]model.Comment{
		comment("c1", "p1", ptr("c1"), t1),
	})

	if len(forest) != 1 || forest[0].ID != "c1" || len(forest[0].Replies) != 0 {
		t.Fatalf("self-referential comment should be a leaf root, got %+v", forest)
	}

	// The forest must be safely walkable and serializable.
	if _, err := json.Marshal(forest); err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
}

func TestBuildParentCycleDoesNotLoseNodes(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []model.Comment{
		comment("a", "p1", ptr("b"), t1),
		comment("b", "p1", ptr("a"), t1.Add(time.Minute)),
	}

	forest := Build(records)
	if got := Count(forest); got != 2 {
		t.Fatalf("Count() = %d, want 2 (cycle members must not be dropped)", got)
	}
	if _, err := json.Marshal(forest); err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
}

func TestBuildDeterministicAcrossInputOrder(t *testing.T) {
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	records := []model.Comment{
		comment("a", "p1", nil, base),
		comment("b", "p1", ptr("a"), base.Add(1*time.Minute)),
		comment("c", "p1", ptr("b"), base.Add(2*time.Minute)),
		comment("d", "p1", nil, base.Add(3*time.Minute)),
		comment("e", "p1", ptr("d"), base.Add(4*time.Minute)),
		comment("f", "p1", ptr("missing"), base.Add(5*time.Minute)),
	}

	want := shape(Build(records))

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]model.Comment, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		if got := shape(Build(shuffled)); !reflect.DeepEqual(got, want) {
			t.Fatalf("iteration %d: forest shape differs\ngot  %v\nwant %v", i, got, want)
		}
	}
}

func TestBuildSortsNewestFirst(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	forest := Build([]model.Comment{
		comment("jan", "p1", nil, jan),
		comment("mar", "p1", nil, mar),
		comment("feb", "p1", nil, feb),
	})

	got := []string{forest[0].ID, forest[1].ID, forest[2].ID}
	want := []string{"mar", "feb", "jan"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("root order = %v, want %v", got, want)
	}
}

func TestBuildSortsRepliesNewestFirst(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	forest := Build([]model.Comment{
		comment("root", "p1", nil, base),
		comment("old", "p1", ptr("root"), base.Add(1*time.Minute)),
		comment("new", "p1", ptr("root"), base.Add(2*time.Minute)),
	})

	replies := forest[0].Replies
	if replies[0].ID != "new" || replies[1].ID != "old" {
		t.Fatalf("reply order = [%s %s], want [new old]", replies[0].ID, replies[1].ID)
	}
}

func TestBuildZeroTimestampSortsOldest(t *testing.T) {
	forest := Build([]model.Comment{
		comment("dated", "p1", nil, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		comment("undated", "p1", nil, time.Time{}),
	})

	if forest[0].ID != "dated" || forest[1].ID != "undated" {
		t.Fatalf("root order = [%s %s], want [dated undated]", forest[0].ID, forest[1].ID)
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []model.Comment{
		comment("c2", "p1", ptr("c1"), t1.Add(time.Minute)),
		comment("c1", "p1", nil, t1),
	}
	snapshot := make([]model.Comment, len(records))
	copy(snapshot, records)

	Build(records)

	if !reflect.DeepEqual(records, snapshot) {
		t.Fatal("Build mutated its input slice")
	}
}

// shape reduces a forest to a comparable nested structure of ids.
func shape(forest []*Node) []interface{} {
	out := make([]interface{}, 0, len(forest))
	for _, n := range forest {
		out = append(out, map[string]interface{}{
			"id":      n.ID,
			"root":    n.RootID,
			"replies": shape(n.Replies),
		})
	}
	return out
}
