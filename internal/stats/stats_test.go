package stats

import "testing"

func TestTrackerCounts(t *testing.T) {
	tr := New()

	for i := 0; i < 3; i++ {
		tr.AddProcessed()
	}
	tr.AddCategorized()
	tr.AddCategorized()
	tr.AddEmbedded()
	tr.AddError()

	snap := tr.Snapshot()
	if snap.Processed != 3 {
		t.Errorf("Processed = %d, want 3", snap.Processed)
	}
	if snap.Categorized != 2 {
		t.Errorf("Categorized = %d, want 2", snap.Categorized)
	}
	if snap.Embedded != 1 {
		t.Errorf("Embedded = %d, want 1", snap.Embedded)
	}
	if snap.Errors != 1 {
		t.Errorf("Errors = %d, want 1", snap.Errors)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tr := New()
	tr.AddProcessed()

	snap := tr.Snapshot()
	tr.AddProcessed()

	if snap.Processed != 1 {
		t.Errorf("snapshot mutated after the fact: %d", snap.Processed)
	}
	if tr.Snapshot().Processed != 2 {
		t.Errorf("tracker = %d, want 2", tr.Snapshot().Processed)
	}
}
