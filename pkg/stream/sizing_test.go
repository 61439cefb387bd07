package stream

import "testing"

func TestAdapt_SmallRequestUsesOneWorker(t *testing.T) {
	p := DefaultParams()
	workers, _, _ := Adapt(10<<20, p)
	if workers != 1 {
		t.Fatalf("workers = %d, want 1", workers)
	}
}

func TestAdapt_LargeRequestScalesUpToMax(t *testing.T) {
	p := DefaultParams()
	workers, _, _ := Adapt(1<<30, p)
	if workers != p.MaxWorkers {
		t.Fatalf("workers = %d, want %d", workers, p.MaxWorkers)
	}
}

func TestAdapt_NeverExceedsConfiguredBounds(t *testing.T) {
	p := DefaultParams()
	for _, length := range []int64{1, 1 << 20, 50 << 20, 200 << 20, 5 << 30} {
		workers, batch, buffer := Adapt(length, p)
		if workers < 1 || workers > p.MaxWorkers {
			t.Fatalf("length=%d: workers=%d out of [1,%d]", length, workers, p.MaxWorkers)
		}
		if batch < p.MinBatchBlocks || batch > p.MaxBatchBlocks {
			t.Fatalf("length=%d: batch=%d out of [%d,%d]", length, batch, p.MinBatchBlocks, p.MaxBatchBlocks)
		}
		if buffer < workers*batch {
			t.Fatalf("length=%d: buffer=%d smaller than workers*batch=%d", length, buffer, workers*batch)
		}
	}
}

func TestAdapt_MoreWorkersMeansSmallerOrEqualBatch(t *testing.T) {
	p := DefaultParams()
	_, batchFew, _ := Adapt(1<<20, p)
	_, batchMany, _ := Adapt(1<<30, p)
	if batchMany > batchFew {
		t.Fatalf("batch should shrink as workers grow: batchFew=%d batchMany=%d", batchFew, batchMany)
	}
}
