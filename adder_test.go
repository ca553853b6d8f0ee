package striped64

import (
	"runtime"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestAdderSequential(t *testing.T) {
	n := 1000000
	if testing.Short() {
		n = 100000
	}

	var a Adder
	for i := 0; i < n; i++ {
		a.Add(1)
	}

	if got := a.Sum(); got != int64(n) {
		t.Fatalf("sum = %d, want %d", got, n)
	}
	// A lone writer never fails a base CAS, so striping never starts.
	if a.cells.Load() != nil {
		t.Fatal("cell table allocated without contention")
	}
	if st := a.Stats(); st.Slots != 0 || st.Cells != 0 {
		t.Fatalf("unexpected stats for uncontended adder: %+v", st)
	}
}

func TestAdderConcurrent(t *testing.T) {
	const perG = 100000
	gs := max(8, runtime.GOMAXPROCS(0))

	var a Adder
	var eg errgroup.Group
	for g := 0; g < gs; g++ {
		eg.Go(func() error {
			for i := 0; i < perG; i++ {
				a.Add(1)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}

	if got, want := a.Sum(), int64(gs*perG); got != want {
		t.Fatalf("sum = %d, want %d", got, want)
	}
	t.Log(a.Stats().ToString())
}

func TestAdderMixedDeltas(t *testing.T) {
	const perG = 50000
	gs := max(4, runtime.GOMAXPROCS(0))

	var a Adder
	var eg errgroup.Group
	for g := 0; g < gs; g++ {
		eg.Go(func() error {
			for i := 0; i < perG; i++ {
				a.Inc()
				a.Add(3)
				a.Dec()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}

	if got, want := a.Sum(), int64(gs*perG*3); got != want {
		t.Fatalf("sum = %d, want %d", got, want)
	}
}

func TestAdderReset(t *testing.T) {
	var a Adder
	for i := 0; i < 1000; i++ {
		a.Add(2)
	}
	if got := a.Sum(); got != 2000 {
		t.Fatalf("sum = %d, want 2000", got)
	}

	a.Reset()
	if got := a.Sum(); got != 0 {
		t.Fatalf("sum after reset = %d, want 0", got)
	}

	a.Add(5)
	if got := a.Sum(); got != 5 {
		t.Fatalf("sum after reuse = %d, want 5", got)
	}
}

func TestAdderSumThenReset(t *testing.T) {
	var a Adder
	// Force the striped representation so the sweep walks cells too.
	p := &probe{}
	a.accumulateInt64(p, 100, nil, true)
	a.Add(23)

	if got := a.SumThenReset(); got != 123 {
		t.Fatalf("SumThenReset = %d, want 123", got)
	}
	if got := a.Sum(); got != 0 {
		t.Fatalf("sum after SumThenReset = %d, want 0", got)
	}
}

// Two writers race a resetter. The final total has no exact value,
// but it can never go negative and never exceed everything added.
func TestAdderResetRace(t *testing.T) {
	const perG = 100000

	var a Adder
	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				a.Add(1)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			a.Reset()
		}
	}()
	wg.Wait()

	if got := a.Sum(); got < 0 || got > 2*perG {
		t.Fatalf("sum = %d, want within [0, %d]", got, 2*perG)
	}
}

func TestAdderString(t *testing.T) {
	var a Adder
	a.Add(42)
	if got := a.String(); got != "42" {
		t.Fatalf("String() = %q, want %q", got, "42")
	}
}

func TestAdderMarshalJSON(t *testing.T) {
	var a Adder
	a.Add(-7)
	data, err := a.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "-7" {
		t.Fatalf("MarshalJSON() = %q, want %q", data, "-7")
	}
}

func TestAdderStats(t *testing.T) {
	var a Adder
	p := &probe{}
	a.accumulateInt64(p, 1, nil, true)

	st := a.Stats()
	if st.Slots != 2 {
		t.Fatalf("stats slots = %d, want 2", st.Slots)
	}
	if st.Cells < 1 {
		t.Fatalf("stats cells = %d, want >= 1", st.Cells)
	}
	if st.Capacity < 2 || st.Capacity&(st.Capacity-1) != 0 {
		t.Fatalf("stats capacity = %d, want a power of two >= 2", st.Capacity)
	}
}
