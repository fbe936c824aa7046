package config

import (
	"sort"
	"strconv"
	"strings"
)

// DynamicConfig is a mapping from option key to typed-option value, used
// for user overrides and per-volume/per-material configs (spec.md
// §4.7). All keys are validated against a ConfigDef.
type DynamicConfig struct {
	def    *ConfigDef
	values map[string]Value
}

// NewDynamicConfig builds an empty DynamicConfig bound to def.
func NewDynamicConfig(def *ConfigDef) *DynamicConfig {
	return &DynamicConfig{def: def, values: map[string]Value{}}
}

// Set stores v under key, which must already be a canonical schema key;
// callers taking raw text input should use SetDeserialize instead.
func (c *DynamicConfig) Set(key string, v Value) error {
	canon, ok := c.def.Canonical(key)
	if !ok {
		return &UnknownOptionError{Key: key}
	}
	c.values[canon] = v
	return nil
}

// Get returns the value stored at key and whether it was present.
func (c *DynamicConfig) Get(key string) (Value, bool) {
	canon, ok := c.def.Canonical(key)
	if !ok {
		return Value{}, false
	}
	v, ok := c.values[canon]
	return v, ok
}

// GetOrDefault returns the stored value at key, or the schema default if
// unset.
func (c *DynamicConfig) GetOrDefault(key string) (Value, error) {
	canon, ok := c.def.Canonical(key)
	if !ok {
		return Value{}, &UnknownOptionError{Key: key}
	}
	if v, ok := c.values[canon]; ok {
		return v, nil
	}
	return c.def.options[canon].Default, nil
}

// Has reports whether key has an explicit (non-default) value.
func (c *DynamicConfig) Has(key string) bool {
	canon, ok := c.def.Canonical(key)
	if !ok {
		return false
	}
	_, ok = c.values[canon]
	return ok
}

// Keys returns every explicitly-set key, sorted for deterministic
// iteration.
func (c *DynamicConfig) Keys() []string {
	out := make([]string, 0, len(c.values))
	for k := range c.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep-enough copy (values are immutable once built, so
// a shallow value copy suffices).
func (c *DynamicConfig) Clone() *DynamicConfig {
	out := NewDynamicConfig(c.def)
	for k, v := range c.values {
		out.values[k] = v
	}
	return out
}

// Apply copies every key from other into c. If ignoreNonexistent is
// false, a key in other that c's schema doesn't define raises
// UnknownOptionError; the schema is shared between the two configs in
// this implementation so that case cannot occur in practice, but the
// flag is honored for parity with spec.md's `apply(other,
// ignore_nonexistent)` contract when configs are merged across a
// narrower schema view.
func (c *DynamicConfig) Apply(other *DynamicConfig, ignoreNonexistent bool) error {
	for _, k := range other.Keys() {
		v := other.values[k]
		if _, ok := c.def.Canonical(k); !ok {
			if ignoreNonexistent {
				continue
			}
			return &UnknownOptionError{Key: k}
		}
		c.values[k] = v
	}
	return nil
}

// Diff returns the set of keys whose value in c differs from the
// corresponding value in other (missing-in-either counts as different).
func (c *DynamicConfig) Diff(other *DynamicConfig) []string {
	seen := map[string]bool{}
	var diff []string
	for k, v := range c.values {
		seen[k] = true
		if ov, ok := other.values[k]; !ok || !v.Equal(ov) {
			diff = append(diff, k)
		}
	}
	for k := range other.values {
		if !seen[k] {
			diff = append(diff, k)
		}
	}
	sort.Strings(diff)
	return diff
}

// SetDeserialize parses text for key, running it through the legacy
// rewrite table first (renamed keys, neutralized old defaults,
// silently-dropped removed keys; enum tags are not rewritten), then
// validating the result
// against the schema (spec.md §4.7/§7).
func (c *DynamicConfig) SetDeserialize(key, text string) error {
	key, text, drop, err := applyLegacyRewrite(key, text)
	if err != nil {
		return err
	}
	if drop {
		return nil
	}

	def, ok := c.def.Lookup(key)
	if !ok {
		return &UnknownOptionError{Key: key}
	}

	v, err := parseValue(def, text)
	if err != nil {
		return &InvalidOptionValueError{Key: key, Value: text, Cause: err}
	}
	if err := checkBounds(def, v); err != nil {
		return &InvalidOptionValueError{Key: key, Value: text, Cause: err}
	}

	c.values[def.Key] = v

	for _, shortcutKey := range def.Shortcut {
		if _, ok := c.values[shortcutKey]; !ok {
			c.values[shortcutKey] = v
		}
	}
	return nil
}

func parseValue(def *OptionDef, text string) (Value, error) {
	text = strings.TrimSpace(text)
	switch def.Kind {
	case KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case KindInt:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return Int(i), nil
	case KindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case KindPercent:
		f, err := strconv.ParseFloat(strings.TrimSuffix(text, "%"), 64)
		if err != nil {
			return Value{}, err
		}
		return Percent(f), nil
	case KindFloatOrPercent:
		isPercent := strings.HasSuffix(text, "%")
		f, err := strconv.ParseFloat(strings.TrimSuffix(text, "%"), 64)
		if err != nil {
			return Value{}, err
		}
		return FloatOrPercentValue(f, isPercent), nil
	case KindString:
		return String(text), nil
	case KindEnum:
		tag, ok := def.EnumValues[text]
		if !ok {
			return Value{}, &InvalidOptionValueError{Key: def.Key, Value: text}
		}
		return Enum(tag), nil
	default:
		return Value{}, &BadOptionTypeError{Key: def.Key, Wanted: def.Kind, Actual: def.Kind}
	}
}

func checkBounds(def *OptionDef, v Value) error {
	var f float64
	switch v.Kind {
	case KindInt:
		f = float64(v.i)
	case KindFloat, KindPercent:
		f = v.f
	case KindFloatOrPercent:
		if v.isPercent {
			return nil
		}
		f = v.f
	default:
		return nil
	}
	if def.Min != nil && f < *def.Min {
		return &InvalidOptionValueError{Key: def.Key, Value: v.String()}
	}
	if def.Max != nil && f > *def.Max {
		return &InvalidOptionValueError{Key: def.Key, Value: v.String()}
	}
	return nil
}

// Normalize propagates shortcuts and enforces cross-option constraints
// (spec.md §4.7): an `extruder` shortcut fans out to the per-role
// extruder keys if unset; enabling spiral_vase forces perimeters=1,
// top_solid_layers=0, fill_density=0. retract_layer_change is not part
// of this schema and is not set.
func (c *DynamicConfig) Normalize() {
	if extruder, ok := c.values["extruder"]; ok {
		def, _ := c.def.Lookup("extruder")
		for _, key := range def.Shortcut {
			if _, set := c.values[key]; !set {
				c.values[key] = extruder
			}
		}
	}

	if spiral, ok := c.values["spiral_vase"]; ok {
		if b, _ := spiral.AsBool("spiral_vase"); b {
			c.values["perimeters"] = Int(1)
			c.values["top_solid_layers"] = Int(0)
			c.values["fill_density"] = Percent(0)
		}
	}
}
