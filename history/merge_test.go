package history

import (
	"reflect"
	"testing"
	"time"

	"flipclerk/facet"
)

func entry(id uint32, f int, start string, minutes int) facet.Entry {
	parsed, err := time.Parse(time.RFC3339, start)
	if err != nil {
		panic(err)
	}
	return facet.Entry{
		ID:       id,
		Facet:    facet.Facet(f),
		Time:     parsed,
		Duration: time.Duration(minutes) * time.Minute,
	}
}

func TestMerge_ExistingWinsOnResentID(t *testing.T) {
	t.Parallel()

	existing := []facet.Entry{
		entry(1, 0, "2026-03-02T09:00:00Z", 30),
		entry(2, 1, "2026-03-02T09:30:00Z", 45),
	}
	resent := entry(2, 5, "2026-03-02T10:00:00Z", 10)
	incoming := []facet.Entry{
		resent,
		entry(3, 2, "2026-03-02T10:15:00Z", 20),
	}

	merged, next := Merge(existing, incoming, MergeOptions{})

	if len(merged) != 3 {
		t.Fatalf("expected 3 merged entries, got %d", len(merged))
	}
	for i, want := range []uint32{1, 2, 3} {
		if merged[i].ID != want {
			t.Fatalf("expected id %d at position %d, got %d", want, i, merged[i].ID)
		}
	}
	if !reflect.DeepEqual(merged[1], existing[1]) {
		t.Fatalf("resent id 2 overwrote the persisted entry: %+v", merged[1])
	}
	if next != 4 {
		t.Fatalf("expected next start id 4, got %d", next)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	t.Parallel()

	existing := []facet.Entry{
		entry(1, 0, "2026-03-02T09:00:00Z", 30),
	}
	incoming := []facet.Entry{
		entry(3, 2, "2026-03-02T10:00:00Z", 20),
		entry(2, 1, "2026-03-02T09:30:00Z", 45),
	}

	once, nextOnce := Merge(existing, incoming, MergeOptions{})
	twice, nextTwice := Merge(once, incoming, MergeOptions{})

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("merging the same batch twice changed the result:\nonce:  %+v\ntwice: %+v", once, twice)
	}
	if nextOnce != nextTwice {
		t.Fatalf("next start id changed on re-merge: %d vs %d", nextOnce, nextTwice)
	}
}

func TestMerge_SortsUnorderedIncoming(t *testing.T) {
	t.Parallel()

	incoming := []facet.Entry{
		entry(7, 0, "2026-03-02T11:00:00Z", 5),
		entry(4, 1, "2026-03-02T09:00:00Z", 5),
		entry(5, 2, "2026-03-02T09:30:00Z", 5),
	}

	merged, next := Merge(nil, incoming, MergeOptions{})

	for i := 1; i < len(merged); i++ {
		if merged[i-1].ID >= merged[i].ID {
			t.Fatalf("result not strictly ascending by id: %+v", merged)
		}
	}
	if next != 8 {
		t.Fatalf("expected next start id 8, got %d", next)
	}
}

func TestMerge_ContainsEveryIDExactlyOnce(t *testing.T) {
	t.Parallel()

	existing := []facet.Entry{
		entry(2, 0, "2026-03-02T09:00:00Z", 5),
		entry(4, 0, "2026-03-02T09:10:00Z", 5),
	}
	incoming := []facet.Entry{
		entry(1, 1, "2026-03-02T08:00:00Z", 5),
		entry(2, 1, "2026-03-02T08:10:00Z", 5),
		entry(5, 1, "2026-03-02T08:20:00Z", 5),
		entry(5, 2, "2026-03-02T08:30:00Z", 5),
	}

	merged, _ := Merge(existing, incoming, MergeOptions{})

	counts := make(map[uint32]int)
	for _, e := range merged {
		counts[e.ID]++
	}
	for _, id := range []uint32{1, 2, 4, 5} {
		if counts[id] != 1 {
			t.Fatalf("expected id %d exactly once, got %d occurrences", id, counts[id])
		}
	}
	if len(merged) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(merged))
	}
}

func TestNextStartID_EmptyResultUsesDeviceNumbering(t *testing.T) {
	t.Parallel()

	if got := NextStartID(nil, MergeOptions{ZeroBasedIDs: true}); got != 0 {
		t.Fatalf("expected 0 for zero-based devices, got %d", got)
	}
	if got := NextStartID(nil, MergeOptions{}); got != 1 {
		t.Fatalf("expected 1 for one-based devices, got %d", got)
	}
}

func TestNextStartID_OverrideWins(t *testing.T) {
	t.Parallel()

	override := uint32(17)
	entries := []facet.Entry{entry(40, 0, "2026-03-02T09:00:00Z", 5)}

	if got := NextStartID(entries, MergeOptions{NextStartID: &override}); got != 17 {
		t.Fatalf("expected override 17, got %d", got)
	}
}
