package heightplanner

import (
	"math"
	"testing"
)

func TestStaticReachesZMaxExactly(t *testing.T) {
	p := Static(0.2, 0.2, 0.4, 5.0)
	if len(p.PrintZs) == 0 {
		t.Fatal("expected at least one layer")
	}
	last := p.PrintZs[len(p.PrintZs)-1]
	if math.Abs(last-5.0) > 1e-6 {
		t.Errorf("last print_z = %v, want exactly zMax 5.0", last)
	}
}

func TestStaticPrintZsStrictlyIncreasing(t *testing.T) {
	p := Static(0.3, 0.2, 0.4, 5.0)
	for i := 1; i < len(p.PrintZs); i++ {
		if p.PrintZs[i] <= p.PrintZs[i-1] {
			t.Fatalf("print_z not strictly increasing at index %d: %v <= %v", i, p.PrintZs[i], p.PrintZs[i-1])
		}
	}
}

func TestStaticFirstLayerHeight(t *testing.T) {
	p := Static(0.3, 0.2, 0.4, 5.0)
	if p.Heights[0] != 0.3 {
		t.Errorf("first layer height = %v, want 0.3", p.Heights[0])
	}
	if p.PrintZs[0] != 0.3 {
		t.Errorf("first print_z = %v, want 0.3", p.PrintZs[0])
	}
}

func TestStaticSliceZIsMidLayer(t *testing.T) {
	p := Static(0.2, 0.2, 0.4, 1.0)
	for i, pz := range p.PrintZs {
		want := pz - p.Heights[i]/2
		if p.SliceZs[i] != want {
			t.Errorf("SliceZs[%d] = %v, want %v", i, p.SliceZs[i], want)
		}
	}
}

func TestRaftPrependsLayersAndShiftsObjectPlan(t *testing.T) {
	obj := Static(0.2, 0.2, 0.4, 1.0)
	objLayerCount := len(obj.PrintZs)

	out := Raft(obj, 3, 0.3, 0.4, 0.1)

	if len(out.PrintZs) != objLayerCount+3 {
		t.Fatalf("Raft() produced %d layers, want %d raft + %d object = %d", len(out.PrintZs), 3, objLayerCount, objLayerCount+3)
	}
	for i := 1; i < len(out.PrintZs); i++ {
		if out.PrintZs[i] <= out.PrintZs[i-1] {
			t.Fatalf("raft+object print_z not strictly increasing at index %d", i)
		}
	}
	// the object's first print_z, after shifting, should now sit
	// strictly above the raft top.
	raftTop := out.PrintZs[2]
	if out.PrintZs[3] <= raftTop {
		t.Errorf("first object layer print_z %v did not shift above the raft top %v", out.PrintZs[3], raftTop)
	}
}

func TestRaftNoOpWhenZeroLayers(t *testing.T) {
	obj := Static(0.2, 0.2, 0.4, 1.0)
	out := Raft(obj, 0, 0.3, 0.4, 0.1)
	if len(out.PrintZs) != len(obj.PrintZs) {
		t.Errorf("Raft(raftLayers=0) should be a no-op, got %d layers want %d", len(out.PrintZs), len(obj.PrintZs))
	}
}
