package chance

import "testing"

func TestRandomBounds(t *testing.T) {
	r := Random{}
	for i := 0; i < 1000; i++ {
		if v := r.IntBetween(200, 1000); v < 200 || v > 1000 {
			t.Fatalf("int out of range: %d", v)
		}
		if v := r.FloatBetween(0.01, 0.05); v < 0.01 || v >= 0.05 {
			t.Fatalf("float out of range: %f", v)
		}
	}
	if r.IntBetween(5, 5) != 5 {
		t.Fatal("degenerate range must return lo")
	}
}

func TestRandomSucceedsEdges(t *testing.T) {
	r := Random{}
	for i := 0; i < 100; i++ {
		if r.Succeeds(0) {
			t.Fatal("p=0 must never succeed")
		}
		if !r.Succeeds(1) {
			t.Fatal("p=1 must always succeed")
		}
	}
}

func TestRandomSucceedsRate(t *testing.T) {
	r := Random{}
	const n = 20000
	hits := 0
	for i := 0; i < n; i++ {
		if r.Succeeds(0.9) {
			hits++
		}
	}
	rate := float64(hits) / n
	if rate < 0.87 || rate > 0.93 {
		t.Fatalf("success rate %.3f too far from 0.9", rate)
	}
}

func TestScriptReplaysAndRecords(t *testing.T) {
	s := NewScript(true, false)
	if !s.Succeeds(0.95) || s.Succeeds(0.95) || s.Succeeds(0.9) {
		t.Fatal("unexpected scripted sequence")
	}
	asked := s.Asked()
	if len(asked) != 3 || asked[2] != 0.9 {
		t.Fatalf("unexpected asked log: %v", asked)
	}
}
