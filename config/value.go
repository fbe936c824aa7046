// Package config implements the configuration model of spec.md §4.7: a
// process-wide schema (ConfigDef), a dynamic key/value bag
// (DynamicConfig) used for user overrides and per-volume configs, and
// typed static views (PrintConfig, PrintObjectConfig, PrintRegionConfig,
// HostConfig) that subsystems consume directly.
package config

import (
	"fmt"

	"github.com/slic3r/slicer-core/geom"
)

// ValueKind tags the dynamic-dispatch sum type spec.md §9 asks for in
// place of the legacy bit-encoded/virtual option value object.
type ValueKind int

const (
	KindBool ValueKind = iota
	KindInt
	KindFloat
	KindPercent
	KindFloatOrPercent
	KindString
	KindPoint
	KindPoint3
	KindEnum
	KindFloats
	KindInts
	KindStrings
	KindBools
	KindPoints
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindPercent:
		return "Percent"
	case KindFloatOrPercent:
		return "FloatOrPercent"
	case KindString:
		return "String"
	case KindPoint:
		return "Point"
	case KindPoint3:
		return "Point3"
	case KindEnum:
		return "Enum"
	case KindFloats:
		return "Floats"
	case KindInts:
		return "Ints"
	case KindStrings:
		return "Strings"
	case KindBools:
		return "Bools"
	case KindPoints:
		return "Points"
	default:
		return "Unknown"
	}
}

// Value is the typed option value: OptionValue = Bool | Int | Float |
// Percent | FloatOrPercent | String | Point | Point3 | Enum(u32) |
// Floats | Ints | Strings | Bools | Points, per spec.md §9.
type Value struct {
	Kind ValueKind

	b         bool
	i         int64
	f         float64
	isPercent bool // for FloatOrPercent: whether f means "f percent"
	s         string
	pt        geom.Pointf
	pt3       geom.Pointf3
	enumTag   uint32

	floats  []float64
	ints    []int64
	strings []string
	bools   []bool
	points  []geom.Pointf
}

func Bool(v bool) Value            { return Value{Kind: KindBool, b: v} }
func Int(v int64) Value            { return Value{Kind: KindInt, i: v} }
func Float(v float64) Value        { return Value{Kind: KindFloat, f: v} }
func Percent(v float64) Value      { return Value{Kind: KindPercent, f: v} }
func String(v string) Value        { return Value{Kind: KindString, s: v} }
func PointValue(v geom.Pointf) Value  { return Value{Kind: KindPoint, pt: v} }
func Point3Value(v geom.Pointf3) Value { return Value{Kind: KindPoint3, pt3: v} }
func Enum(tag uint32) Value        { return Value{Kind: KindEnum, enumTag: tag} }
func Floats(v []float64) Value     { return Value{Kind: KindFloats, floats: v} }
func Ints(v []int64) Value         { return Value{Kind: KindInts, ints: v} }
func Strings(v []string) Value     { return Value{Kind: KindStrings, strings: v} }
func Bools(v []bool) Value         { return Value{Kind: KindBools, bools: v} }
func Points(v []geom.Pointf) Value { return Value{Kind: KindPoints, points: v} }

// FloatOrPercentValue builds a value that is either an absolute float or
// a percentage of some other (ratio-over) option, as used by extrusion
// width fields (spec.md §4.6).
func FloatOrPercentValue(v float64, isPercent bool) Value {
	return Value{Kind: KindFloatOrPercent, f: v, isPercent: isPercent}
}

func (v Value) AsBool(key string) (bool, error) {
	if v.Kind != KindBool {
		return false, &BadOptionTypeError{Key: key, Wanted: KindBool, Actual: v.Kind}
	}
	return v.b, nil
}

func (v Value) AsInt(key string) (int64, error) {
	if v.Kind != KindInt {
		return 0, &BadOptionTypeError{Key: key, Wanted: KindInt, Actual: v.Kind}
	}
	return v.i, nil
}

func (v Value) AsFloat(key string) (float64, error) {
	switch v.Kind {
	case KindFloat, KindPercent:
		return v.f, nil
	default:
		return 0, &BadOptionTypeError{Key: key, Wanted: KindFloat, Actual: v.Kind}
	}
}

func (v Value) AsString(key string) (string, error) {
	if v.Kind != KindString {
		return "", &BadOptionTypeError{Key: key, Wanted: KindString, Actual: v.Kind}
	}
	return v.s, nil
}

func (v Value) AsEnum(key string) (uint32, error) {
	if v.Kind != KindEnum {
		return 0, &BadOptionTypeError{Key: key, Wanted: KindEnum, Actual: v.Kind}
	}
	return v.enumTag, nil
}

func (v Value) AsPoint(key string) (geom.Pointf, error) {
	if v.Kind != KindPoint {
		return geom.Pointf{}, &BadOptionTypeError{Key: key, Wanted: KindPoint, Actual: v.Kind}
	}
	return v.pt, nil
}

// AsFloatOrPercent resolves a FloatOrPercent value against `ratioOver`
// (the absolute value 100% refers to), returning MissingDependentVariableError
// if the value is a percentage and ratioOver is not available.
func (v Value) AsFloatOrPercent(key, ratioOverKey string, ratioOver *float64) (float64, error) {
	if v.Kind != KindFloatOrPercent {
		return 0, &BadOptionTypeError{Key: key, Wanted: KindFloatOrPercent, Actual: v.Kind}
	}
	if !v.isPercent {
		return v.f, nil
	}
	if ratioOver == nil {
		return 0, &MissingDependentVariableError{Key: key, Dep: ratioOverKey}
	}
	return *ratioOver * v.f / 100.0, nil
}

// IsPercent reports whether a FloatOrPercent value is stored as a
// percentage rather than an absolute value.
func (v Value) IsPercent() bool { return v.Kind == KindFloatOrPercent && v.isPercent }

// Equal reports whether v and o hold the same kind and value, used by
// DynamicConfig.Diff.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat, KindPercent:
		return v.f == o.f
	case KindFloatOrPercent:
		return v.f == o.f && v.isPercent == o.isPercent
	case KindString:
		return v.s == o.s
	case KindPoint:
		return v.pt == o.pt
	case KindPoint3:
		return v.pt3 == o.pt3
	case KindEnum:
		return v.enumTag == o.enumTag
	case KindFloats:
		return equalSlice(v.floats, o.floats)
	case KindInts:
		return equalSlice(v.ints, o.ints)
	case KindStrings:
		return equalSlice(v.strings, o.strings)
	case KindBools:
		return equalSlice(v.bools, o.bools)
	case KindPoints:
		return equalSlice(v.points, o.points)
	default:
		return false
	}
}

func equalSlice[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return fmt.Sprintf("%v", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat, KindPercent:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return v.s
	default:
		// Format through a method-less copy so %+v does not call String again.
		type plain Value
		return fmt.Sprintf("%+v", plain(v))
	}
}
