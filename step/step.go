// Package step implements the step/invalidation state machine of
// spec.md §4.8: PrintState<Step> tracks which pipeline stages are
// current, and a fixed dependency table propagates invalidation.
package step

// ObjectStep is one of the per-object pipeline stages of spec.md §4.8.
type ObjectStep int

const (
	StepLayers ObjectStep = iota
	StepSlice
	StepPerimeters
	StepDetectSurfaces
	StepPrepareInfill
	StepInfill
	StepSupportMaterial
)

// PrintStep is one of the per-print pipeline stages.
type PrintStep int

const (
	StepSkirt PrintStep = iota
	StepBrim
)

// State is a pair of sets `started`, `done` (spec.md §3 PrintState<Step>).
// Invariant: done is always a subset of started.
type State[T comparable] struct {
	started map[T]bool
	done    map[T]bool
}

// NewState builds an empty State.
func NewState[T comparable]() *State[T] {
	return &State[T]{started: map[T]bool{}, done: map[T]bool{}}
}

func (s *State[T]) SetStarted(step T) { s.started[step] = true }

func (s *State[T]) SetDone(step T) {
	s.started[step] = true
	s.done[step] = true
}

// Invalidate removes step from both started and done; it does not
// propagate by itself (the caller derives dependent invalidations via
// the tables below).
func (s *State[T]) Invalidate(step T) {
	delete(s.started, step)
	delete(s.done, step)
}

func (s *State[T]) IsStarted(step T) bool { return s.started[step] }
func (s *State[T]) IsDone(step T) bool    { return s.done[step] }

// ObjectState and PrintState are State specialized over this package's
// two step enums.
type ObjectState = State[ObjectStep]
type PrintState = State[PrintStep]

func NewObjectState() *ObjectState { return NewState[ObjectStep]() }
func NewPrintState() *PrintState   { return NewState[PrintStep]() }

// objectDependents is the hard-coded object-step dependency table of
// spec.md §4.8: invalidating the key also invalidates every step in the
// value, applied after key-driven invalidations, in topological order.
var objectDependents = map[ObjectStep][]ObjectStep{
	StepLayers:      {StepSlice},
	StepSlice:       {StepPerimeters, StepDetectSurfaces, StepSupportMaterial},
	StepDetectSurfaces: {StepPrepareInfill},
	StepPerimeters:  {StepPrepareInfill},
	StepPrepareInfill: {StepInfill},
}

// objectToPrintDependents is the hard-coded object-step -> print-step
// dependency table of spec.md §4.8.
var objectToPrintDependents = map[ObjectStep][]PrintStep{
	StepPerimeters:      {StepSkirt, StepBrim},
	StepInfill:          {StepSkirt, StepBrim},
	StepSupportMaterial: {StepSkirt, StepBrim},
}

// InvalidateObject invalidates step on obj and propagates through the
// hard-coded dependency rules in topological order, additionally
// invalidating the corresponding print-level steps on prn.
func InvalidateObject(obj *ObjectState, prn *PrintState, step ObjectStep) {
	queue := []ObjectStep{step}
	seen := map[ObjectStep]bool{}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if seen[s] {
			continue
		}
		seen[s] = true
		obj.Invalidate(s)
		queue = append(queue, objectDependents[s]...)
		for _, ps := range objectToPrintDependents[s] {
			prn.Invalidate(ps)
		}
	}
}

// KeyInvalidation maps a config key to the object-steps and print-steps
// it invalidates when its value changes (spec.md §4.8 "Invalidation
// rules (object)"); callers populate this per-key table (e.g. from
// package config's schema) and then call ApplyKeyInvalidation per
// changed key.
type KeyInvalidation struct {
	ObjectSteps []ObjectStep
	PrintSteps  []PrintStep
}

// ApplyKeyInvalidation invalidates every step a changed key's
// KeyInvalidation names, then lets InvalidateObject propagate the
// hard-coded dependency rules for each.
func ApplyKeyInvalidation(obj *ObjectState, prn *PrintState, inv KeyInvalidation) {
	for _, s := range inv.ObjectSteps {
		InvalidateObject(obj, prn, s)
	}
	for _, ps := range inv.PrintSteps {
		prn.Invalidate(ps)
	}
}

// DefaultKeyInvalidations is a representative (not exhaustive, see
// DESIGN.md) map from option key to the steps it invalidates. Some keys
// the pipeline reads, such as fill_density and interface_shells, have
// no entry.
var DefaultKeyInvalidations = map[string]KeyInvalidation{
	"layer_height":              {ObjectSteps: []ObjectStep{StepLayers}},
	"first_layer_height":        {ObjectSteps: []ObjectStep{StepLayers}},
	"adaptive_slicing":          {ObjectSteps: []ObjectStep{StepLayers}},
	"raft_layers":               {ObjectSteps: []ObjectStep{StepLayers}},
	"perimeters":                {ObjectSteps: []ObjectStep{StepPerimeters}},
	"perimeter_extrusion_width": {ObjectSteps: []ObjectStep{StepPerimeters}},
	"fill_pattern":              {ObjectSteps: []ObjectStep{StepInfill}},
	"top_infill_pattern":        {ObjectSteps: []ObjectStep{StepInfill}},
	"bottom_infill_pattern":     {ObjectSteps: []ObjectStep{StepInfill}},
	"top_solid_layers":          {ObjectSteps: []ObjectStep{StepDetectSurfaces}},
	"bottom_solid_layers":       {ObjectSteps: []ObjectStep{StepDetectSurfaces}},
	"support_material":          {ObjectSteps: []ObjectStep{StepSupportMaterial}},
	"support_material_pattern":  {ObjectSteps: []ObjectStep{StepSupportMaterial}},
	"skirts":                    {PrintSteps: []PrintStep{StepSkirt}},
	"brim_width":                {PrintSteps: []PrintStep{StepBrim}},
}

// FillDensityCrossing reports whether old->new fill_density crosses the
// 0% or 100% boundary, which additionally invalidates Perimeters because
// extra-perimeter logic depends on non-empty infill (spec.md §4.8
// "Invalidation rules (region)").
func FillDensityCrossing(oldPct, newPct float64) bool {
	crosses := func(v float64) bool { return v == 0 || v == 100 }
	return crosses(oldPct) != crosses(newPct) || (oldPct != newPct && (oldPct == 0 || oldPct == 100 || newPct == 0 || newPct == 100))
}
