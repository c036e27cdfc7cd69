package memory

import (
	"context"
	"testing"
	"time"

	"villagesage/internal/app/ports"
)

func TestTurnRepo_AppendAndListRecent(t *testing.T) {
	repo := NewTurnRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := repo.Append(ctx, ports.TurnRecord{
			UserID:     "u1",
			UserText:   "what next?",
			Population: 100 + i,
			OccurredAt: time.Unix(int64(i), 0),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	got, err := repo.ListRecent(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Population != 101 || got[1].Population != 102 {
		t.Fatalf("expected the two most recent in order, got %d then %d", got[0].Population, got[1].Population)
	}

	other, err := repo.ListRecent(ctx, "u2", 10)
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no records for another user, got %d", len(other))
	}
}

func TestTurnRepo_ListCopiesRecords(t *testing.T) {
	repo := NewTurnRepo()
	ctx := context.Background()
	if err := repo.Append(ctx, ports.TurnRecord{UserID: "u1", UserText: "original"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.ListRecent(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got[0].UserText = "mutated"

	again, _ := repo.ListRecent(ctx, "u1", 0)
	if again[0].UserText != "original" {
		t.Fatalf("stored record mutated: %q", again[0].UserText)
	}
}
