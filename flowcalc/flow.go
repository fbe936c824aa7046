// Package flowcalc implements the flow / extrusion-width computation of
// spec.md §4.6: mapping a semantic role plus layer height and nozzle
// diameter to a centerline spacing and a volumetric extrusion rate.
package flowcalc

import (
	"math"

	"github.com/slic3r/slicer-core/config"
)

// Role is the semantic extrusion role an ExtrusionEntity carries
// (spec.md §6).
type Role int

const (
	RolePerimeter Role = iota
	RoleExternalPerimeter
	RoleOverhangPerimeter
	RoleInternalInfill
	RoleSolidInfill
	RoleTopSolidInfill
	RoleBridgeInfill
	RoleThinWall
	RoleGapFill
	RoleSkirt
	RoleSupportMaterial
	RoleSupportMaterialInterface
	RoleWipeTower
	RoleMixed
)

func (r Role) String() string {
	switch r {
	case RolePerimeter:
		return "Perimeter"
	case RoleExternalPerimeter:
		return "ExternalPerimeter"
	case RoleOverhangPerimeter:
		return "OverhangPerimeter"
	case RoleInternalInfill:
		return "InternalInfill"
	case RoleSolidInfill:
		return "SolidInfill"
	case RoleTopSolidInfill:
		return "TopSolidInfill"
	case RoleBridgeInfill:
		return "BridgeInfill"
	case RoleThinWall:
		return "ThinWall"
	case RoleGapFill:
		return "GapFill"
	case RoleSkirt:
		return "Skirt"
	case RoleSupportMaterial:
		return "SupportMaterial"
	case RoleSupportMaterialInterface:
		return "SupportMaterialInterface"
	case RoleWipeTower:
		return "WipeTower"
	default:
		return "Mixed"
	}
}

// autoWidthMultiplier is the role-specific multiplier of nozzle diameter
// used when the configured width is "auto" (zero), per spec.md §4.6.
func autoWidthMultiplier(r Role) float64 {
	switch r {
	case RoleSupportMaterial, RoleSupportMaterialInterface, RoleTopSolidInfill, RoleExternalPerimeter:
		return 1.05
	default:
		return 1.125
	}
}

// NegativeFlowError is raised when a Flow derivation would yield mm3_per_mm <= 0.
type NegativeFlowError struct {
	Role Role
}

func (e *NegativeFlowError) Error() string {
	return "flowcalc: " + e.Role.String() + " would produce a non-positive mm3_per_mm"
}

// NegativeSpacingError is raised when a Flow derivation would yield spacing <= 0.
type NegativeSpacingError struct {
	Role Role
}

func (e *NegativeSpacingError) Error() string {
	return "flowcalc: " + e.Role.String() + " would produce a non-positive spacing"
}

// Flow is the immutable extrusion cross-section descriptor of spec.md
// §3: width/height/nozzle_diameter/spacing_ratio plus a bridge flag.
type Flow struct {
	Width         float64
	Height        float64
	NozzleDiameter float64
	SpacingRatio  float64
	Bridge        bool
	Role          Role
}

// bridgeSpacingK is the small positive constant spec.md §3 describes for
// bridge spacing: spacing = width + k*nozzle_diameter.
const bridgeSpacingK = 0.05

// Spacing returns the centerline-to-centerline distance for adjacent
// same-flow extrusions (spec.md §3).
func (f Flow) Spacing() (float64, error) {
	var s float64
	if f.Bridge {
		s = f.Width + bridgeSpacingK*f.NozzleDiameter
	} else {
		s = f.Width - f.Height*(1-math.Pi/4)*f.SpacingRatio
	}
	if s <= 0 {
		return 0, &NegativeSpacingError{Role: f.Role}
	}
	return s, nil
}

// SpacingTo returns the centerline distance between this flow and other
// (spec.md §8 "spacing symmetry": f1.SpacingTo(f2) == f2.SpacingTo(f1)).
func (f Flow) SpacingTo(other Flow) (float64, error) {
	s1, err := f.Spacing()
	if err != nil {
		return 0, err
	}
	s2, err := other.Spacing()
	if err != nil {
		return 0, err
	}
	return (s1 + s2) / 2, nil
}

// MM3PerMM returns the volume extruded per unit length of travel
// (spec.md §3).
func (f Flow) MM3PerMM() (float64, error) {
	var v float64
	if f.Bridge {
		v = math.Pi / 4 * f.Width * f.Width
	} else {
		v = f.Height * (f.Width - f.Height*(1-math.Pi/4))
	}
	if v <= 0 {
		return 0, &NegativeFlowError{Role: f.Role}
	}
	return v, nil
}

// NewFromSpacing builds a Flow whose Width is back-derived from a given
// pattern spacing (used by the fill compositor, spec.md §4.4).
func NewFromSpacing(role Role, spacing, nozzleDiameter, height, spacingRatio float64, bridge bool) Flow {
	var width float64
	if bridge {
		width = spacing - bridgeSpacingK*nozzleDiameter
	} else {
		width = spacing + height*(1-math.Pi/4)*spacingRatio
	}
	return Flow{Width: width, Height: height, NozzleDiameter: nozzleDiameter, SpacingRatio: spacingRatio, Bridge: bridge, Role: role}
}

// NewFromConfigWidth resolves a configured width (absolute mm, 0 =
// "auto", or a FloatOrPercent stored as percent-of-ratioOver) into a
// Flow for the given role, applying spec.md §4.6's bridge-flow-ratio
// override. It resolves only the width it is given; the fallback chains
// between width keys are handled by ResolveWidth.
func NewFromConfigWidth(role Role, width config.Value, nozzleDiameter, height, spacingRatio, bridgeFlowRatio float64) (Flow, error) {
	if bridgeFlowRatio > 0 {
		var w float64
		if bridgeFlowRatio == 1 {
			w = nozzleDiameter
		} else {
			w = math.Sqrt(bridgeFlowRatio) * nozzleDiameter
		}
		return Flow{Width: w, Height: w, NozzleDiameter: nozzleDiameter, SpacingRatio: spacingRatio, Bridge: true, Role: role}, nil
	}

	w, err := width.AsFloatOrPercent("extrusion_width", "layer_height", &height)
	if err != nil {
		return Flow{}, err
	}
	if w <= 0 {
		w = autoWidthMultiplier(role) * nozzleDiameter
	}
	return Flow{Width: w, Height: height, NozzleDiameter: nozzleDiameter, SpacingRatio: spacingRatio, Role: role}, nil
}

// ResolveWidth implements the fallback chain spec.md §4.6 describes:
// first_layer_extrusion_width -> perimeter_extrusion_width ->
// extrusion_width; top_infill -> solid_infill -> extrusion_width. A
// FloatOrPercent whose absolute value resolves to 0 is treated as unset
// and falls through to the next candidate.
func ResolveWidth(height float64, candidates ...config.Value) config.Value {
	for _, c := range candidates {
		v, err := c.AsFloatOrPercent("extrusion_width", "layer_height", &height)
		if err == nil && (c.IsPercent() || v > 0) {
			return c
		}
	}
	return candidates[len(candidates)-1]
}

// SolidSpacing returns the distance increased (never decreased, up to
// x1.2) so surfaceWidth/distance is an integer (spec.md §4.6, §8 "solid
// spacing integrality"). When no line count fits within that range,
// distance is returned unchanged. Skirt and Brim in package compositor
// do not call it.
func SolidSpacing(surfaceWidth, distance float64) float64 {
	if distance <= 0 || surfaceWidth <= 0 {
		return distance
	}
	// The largest whole line count at or below surfaceWidth/distance
	// gives the smallest spacing that is not narrower than distance.
	n := math.Floor(surfaceWidth / distance)
	if n < 1 {
		return distance
	}
	candidate := surfaceWidth / n
	if candidate > 1.2*distance {
		return distance
	}
	return candidate
}
