package layer

import (
	"github.com/slic3r/slicer-core/flowcalc"
	"github.com/slic3r/slicer-core/geom"
)

// ExtrusionEntity is the closed sum `{Path, Loop, Collection}` spec.md
// §9 asks for in place of an open-ended virtual hierarchy.
type ExtrusionEntity interface {
	Role() flowcalc.Role
	isExtrusionEntity()
}

// ExtrusionPath is an ordered polyline tagged with role, mm3_per_mm,
// width and height (spec.md §3).
type ExtrusionPath struct {
	Polyline  geom.Polyline
	PathRole  flowcalc.Role
	MM3PerMM  float64
	Width     float64
	Height    float64
}

func (p ExtrusionPath) Role() flowcalc.Role { return p.PathRole }
func (ExtrusionPath) isExtrusionEntity()     {}

// ExtrusionLoop is a closed ExtrusionPath sequence (a perimeter ring).
type ExtrusionLoop struct {
	Paths    []ExtrusionPath
	LoopRole flowcalc.Role
}

func (l ExtrusionLoop) Role() flowcalc.Role { return l.LoopRole }
func (ExtrusionLoop) isExtrusionEntity()     {}

// Polygon returns the loop's path reduced to a single closed polygon of
// its path endpoints, for nesting/seam calculations.
func (l ExtrusionLoop) Polygon() geom.Polygon {
	var out geom.Polygon
	for i, p := range l.Paths {
		if i == 0 {
			out = append(out, p.Polyline...)
		} else if len(p.Polyline) > 0 {
			out = append(out, p.Polyline[1:]...)
		}
	}
	return out
}

// ExtrusionEntityCollection is an ordered group of entities. When
// NoSort is true the collection must be emitted in its stored order;
// otherwise the G-code backend may reorder it (e.g. via chained-path
// traversal) for travel-distance optimization.
type ExtrusionEntityCollection struct {
	Entities []ExtrusionEntity
	NoSort   bool
}

func (c ExtrusionEntityCollection) Role() flowcalc.Role {
	if len(c.Entities) == 0 {
		return flowcalc.RoleMixed
	}
	role := c.Entities[0].Role()
	for _, e := range c.Entities[1:] {
		if e.Role() != role {
			return flowcalc.RoleMixed
		}
	}
	return role
}
func (ExtrusionEntityCollection) isExtrusionEntity() {}

// Append adds entities to the collection.
func (c *ExtrusionEntityCollection) Append(e ...ExtrusionEntity) {
	c.Entities = append(c.Entities, e...)
}
