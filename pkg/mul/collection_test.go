package mul

import "testing"

func testCollection(n int) *Collection {
	records := make([]*Record, n)
	for i := range records {
		records[i] = &Record{ID: string(rune('a' + i))}
		records[i].ImageNum = i + 1
	}
	return newCollection(records)
}

func TestCollectionSliceSharesRecords(t *testing.T) {
	t.Parallel()

	col := testCollection(5)
	sub := col.Slice(1, 4)
	if sub.Len() != 3 {
		t.Fatalf("slice length = %d, want 3", sub.Len())
	}
	for i := 0; i < sub.Len(); i++ {
		if sub.At(i) != col.At(i+1) {
			t.Fatalf("slice record %d is not the parent record %d", i, i+1)
		}
	}
	if col.Len() != 5 {
		t.Fatalf("parent length changed to %d", col.Len())
	}
}

func TestCollectionSliceClamps(t *testing.T) {
	t.Parallel()

	col := testCollection(5)
	if got := col.Slice(-5, 99).Len(); got != 5 {
		t.Fatalf("clamped slice length = %d, want 5", got)
	}
	if got := col.Slice(4, 2).Len(); got != 0 {
		t.Fatalf("inverted slice length = %d, want 0", got)
	}
	if got := col.Slice(5, 5).Len(); got != 0 {
		t.Fatalf("empty tail slice length = %d, want 0", got)
	}
}

func TestCollectionSliceStep(t *testing.T) {
	t.Parallel()

	col := testCollection(5)
	odd := col.SliceStep(0, 5, 2)
	if odd.Len() != 3 {
		t.Fatalf("stepped length = %d, want 3", odd.Len())
	}
	for i, want := range []int{1, 3, 5} {
		if got := odd.At(i).ImageNum; got != want {
			t.Fatalf("stepped record %d image number = %d, want %d", i, got, want)
		}
	}

	nested := col.Slice(1, 5).SliceStep(0, 4, 2)
	if nested.Len() != 2 {
		t.Fatalf("nested length = %d, want 2", nested.Len())
	}
	for i, want := range []int{2, 4} {
		if got := nested.At(i).ImageNum; got != want {
			t.Fatalf("nested record %d image number = %d, want %d", i, got, want)
		}
	}
}

func TestCollectionAtPanicsOutOfRange(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("At past the end did not panic")
		}
	}()
	testCollection(2).At(2)
}

func TestCollectionSliceStepPanicsOnBadStep(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("zero step did not panic")
		}
	}()
	testCollection(2).SliceStep(0, 2, 0)
}

func TestCollectionRecords(t *testing.T) {
	t.Parallel()

	col := testCollection(3)
	sub := col.Slice(1, 3)
	records := sub.Records()
	if len(records) != 2 {
		t.Fatalf("records length = %d, want 2", len(records))
	}
	if records[0] != col.At(1) || records[1] != col.At(2) {
		t.Fatal("records do not share the parent entries")
	}

	records[0] = nil
	if sub.At(0) == nil {
		t.Fatal("mutating the returned slice changed the collection")
	}

	if got := len(testCollection(0).Records()); got != 0 {
		t.Fatalf("empty collection records length = %d, want 0", got)
	}
}
