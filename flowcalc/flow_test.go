package flowcalc

import (
	"math"
	"testing"

	"github.com/slic3r/slicer-core/config"
)

func TestFlowSpacingSymmetry(t *testing.T) {
	a := Flow{Width: 0.45, Height: 0.2, NozzleDiameter: 0.4, SpacingRatio: 1, Role: RolePerimeter}
	b := Flow{Width: 0.5, Height: 0.2, NozzleDiameter: 0.4, SpacingRatio: 1, Role: RoleExternalPerimeter}

	ab, err := a.SpacingTo(b)
	if err != nil {
		t.Fatalf("a.SpacingTo(b) error: %v", err)
	}
	ba, err := b.SpacingTo(a)
	if err != nil {
		t.Fatalf("b.SpacingTo(a) error: %v", err)
	}
	if ab != ba {
		t.Errorf("spacing symmetry broken: a.SpacingTo(b) = %v, b.SpacingTo(a) = %v", ab, ba)
	}
}

func TestFlowSpacingNegativeIsError(t *testing.T) {
	f := Flow{Width: 0.01, Height: 0.2, NozzleDiameter: 0.4, SpacingRatio: 1, Role: RolePerimeter}
	if _, err := f.Spacing(); err == nil {
		t.Error("expected NegativeSpacingError for a width smaller than the height correction")
	}
}

func TestFlowMM3PerMMBridgeUsesCircularCrossSection(t *testing.T) {
	f := Flow{Width: 0.4, Height: 0.4, NozzleDiameter: 0.4, Bridge: true, Role: RoleBridgeInfill}
	got, err := f.MM3PerMM()
	if err != nil {
		t.Fatalf("MM3PerMM() error: %v", err)
	}
	want := math.Pi / 4 * 0.4 * 0.4
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("MM3PerMM() = %v, want %v", got, want)
	}
}

func TestAutoWidthMultiplier(t *testing.T) {
	tests := []struct {
		role Role
		want float64
	}{
		{RoleSupportMaterial, 1.05},
		{RoleSupportMaterialInterface, 1.05},
		{RoleTopSolidInfill, 1.05},
		{RoleExternalPerimeter, 1.05},
		{RolePerimeter, 1.125},
		{RoleInternalInfill, 1.125},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			if got := autoWidthMultiplier(tt.role); got != tt.want {
				t.Errorf("autoWidthMultiplier(%v) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestNewFromConfigWidthAutoFallsBackToMultiplier(t *testing.T) {
	height := 0.2
	f, err := NewFromConfigWidth(RolePerimeter, config.FloatOrPercentValue(0, false), 0.4, height, 1, 0)
	if err != nil {
		t.Fatalf("NewFromConfigWidth() error: %v", err)
	}
	want := autoWidthMultiplier(RolePerimeter) * 0.4
	if math.Abs(f.Width-want) > 1e-9 {
		t.Errorf("auto width = %v, want %v", f.Width, want)
	}
}

func TestNewFromConfigWidthBridgeRatioOverride(t *testing.T) {
	f, err := NewFromConfigWidth(RoleBridgeInfill, config.FloatOrPercentValue(0.45, false), 0.4, 0.2, 1, 1)
	if err != nil {
		t.Fatalf("NewFromConfigWidth() error: %v", err)
	}
	if !f.Bridge {
		t.Error("expected a bridge_flow_ratio override to mark the flow as bridge")
	}
	if f.Width != 0.4 {
		t.Errorf("bridge width at ratio 1 = %v, want nozzle diameter 0.4", f.Width)
	}
}

func TestResolveWidthFallsThroughUnsetCandidates(t *testing.T) {
	height := 0.2
	unset := config.FloatOrPercentValue(0, false)
	set := config.FloatOrPercentValue(0.5, false)
	got := ResolveWidth(height, unset, unset, set)
	gotVal, _ := got.AsFloatOrPercent("extrusion_width", "layer_height", &height)
	if gotVal != 0.5 {
		t.Errorf("ResolveWidth() resolved to %v, want 0.5 from the first set candidate", gotVal)
	}
}

func TestSolidSpacingNeverExceedsPoint2xTarget(t *testing.T) {
	got := SolidSpacing(10, 0.45)
	if got > 1.2*0.45 {
		t.Errorf("SolidSpacing() = %v, want <= %v", got, 1.2*0.45)
	}
	// surfaceWidth/spacing should land on (approximately) an integer
	// number of lines.
	n := 10 / got
	if math.Abs(n-math.Round(n)) > 1e-6 {
		t.Errorf("SolidSpacing() = %v, does not divide surfaceWidth into an integer line count (n=%v)", got, n)
	}
}
