package pool

import "testing"

func TestSpawnAndGet(t *testing.T) {
	var p Pool[string]

	a := p.Spawn("a")
	b := p.Spawn("b")

	if p.Len() != 2 {
		t.Fatalf("expected len 2, got %d", p.Len())
	}
	if v := p.Get(a); v == nil || *v != "a" {
		t.Errorf("expected to get back \"a\", got %v", v)
	}
	if v := p.Get(b); v == nil || *v != "b" {
		t.Errorf("expected to get back \"b\", got %v", v)
	}
}

func TestZeroHandle(t *testing.T) {
	var p Pool[int]
	p.Spawn(1)

	var none Handle[int]
	if !none.IsNone() {
		t.Error("expected zero handle to be none")
	}
	if v := p.Get(none); v != nil {
		t.Errorf("expected nil for zero handle, got %v", *v)
	}
	if _, ok := p.Free(none); ok {
		t.Error("expected Free on zero handle to report false")
	}
}

func TestFreeInvalidatesHandle(t *testing.T) {
	var p Pool[string]

	h := p.Spawn("a")
	v, ok := p.Free(h)
	if !ok || v != "a" {
		t.Fatalf("expected Free to return \"a\", got %q (ok=%v)", v, ok)
	}
	if p.Get(h) != nil {
		t.Error("expected stale handle lookup to return nil")
	}
	if p.Contains(h) {
		t.Error("expected Contains to report false for freed handle")
	}
	if _, ok := p.Free(h); ok {
		t.Error("expected double Free to report false")
	}
}

func TestSlotReuseBumpsGeneration(t *testing.T) {
	var p Pool[string]

	old := p.Spawn("a")
	p.Free(old)

	repl := p.Spawn("b")
	if repl == old {
		t.Fatal("expected reused slot to produce a distinct handle")
	}
	if p.Get(old) != nil {
		t.Error("expected old handle to stay stale after slot reuse")
	}
	if v := p.Get(repl); v == nil || *v != "b" {
		t.Errorf("expected new handle to resolve to \"b\", got %v", v)
	}
}

func TestEachVisitsInInsertionOrder(t *testing.T) {
	var p Pool[int]
	for i := 0; i < 5; i++ {
		p.Spawn(i * 10)
	}

	var got []int
	p.Each(func(_ Handle[int], v *int) bool {
		got = append(got, *v)
		return true
	})

	want := []int{0, 10, 20, 30, 40}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestEachStopsEarly(t *testing.T) {
	var p Pool[int]
	for i := 0; i < 5; i++ {
		p.Spawn(i)
	}

	visited := 0
	p.Each(func(_ Handle[int], _ *int) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Errorf("expected iteration to stop after 2 visits, got %d", visited)
	}
}

func TestClear(t *testing.T) {
	var p Pool[int]
	h := p.Spawn(7)

	p.Clear()
	if p.Len() != 0 {
		t.Errorf("expected empty pool after Clear, got len %d", p.Len())
	}
	if p.Get(h) != nil {
		t.Error("expected handle from before Clear to be stale")
	}
}
