package classify

import (
	"testing"
	"time"

	"fitlog/workout"
)

func TestClassifyImportEntries_Duplicate(t *testing.T) {
	t.Parallel()

	existing := []workout.Entry{baseStoredEntry()}
	candidates := []workout.Entry{
		{
			Date:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local),
			Activity: "Running",
			Value:    2.5,
			Unit:     "km",
		},
	}

	toAdd, duplicates := ClassifyImportEntries(candidates, existing)
	if duplicates != 1 {
		t.Fatalf("expected 1 duplicate, got %d", duplicates)
	}
	if len(toAdd) != 0 {
		t.Fatalf("expected no add candidates, got %d", len(toAdd))
	}
}

func TestClassifyImportEntries_New(t *testing.T) {
	t.Parallel()

	existing := []workout.Entry{baseStoredEntry()}
	candidates := []workout.Entry{
		{
			Date:     time.Date(2025, 7, 2, 0, 0, 0, 0, time.Local),
			Activity: "Running",
			Value:    2.8,
			Unit:     "km",
		},
	}

	toAdd, duplicates := ClassifyImportEntries(candidates, existing)
	if duplicates != 0 {
		t.Fatalf("expected 0 duplicates, got %d", duplicates)
	}
	if len(toAdd) != 1 {
		t.Fatalf("expected 1 add candidate, got %d", len(toAdd))
	}
	if toAdd[0].Value != 2.8 {
		t.Fatalf("expected new entry to be kept, got %v", toAdd[0])
	}
}

func TestClassifyImportEntries_RepeatedInBatch(t *testing.T) {
	t.Parallel()

	repeated := workout.Entry{
		Date:     time.Date(2025, 7, 3, 0, 0, 0, 0, time.Local),
		Activity: "Push-ups",
		Value:    30,
		Unit:     "reps",
	}
	candidates := []workout.Entry{repeated, repeated, repeated}

	toAdd, duplicates := ClassifyImportEntries(candidates, nil)
	if len(toAdd) != 1 {
		t.Fatalf("expected repeated row to be added once, got %d", len(toAdd))
	}
	if duplicates != 2 {
		t.Fatalf("expected 2 duplicates, got %d", duplicates)
	}
}

func baseStoredEntry() workout.Entry {
	return workout.Entry{
		Date:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local),
		Activity: "Running",
		Value:    2.5,
		Unit:     "km",
	}
}
