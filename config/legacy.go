package config

import (
	"strconv"
)

// applyLegacyRewrite runs a raw (key, text) pair through the legacy
// table spec.md §4.7 describes: historically-renamed keys, old numeric
// defaults that must be neutralized, and removed keys that become silent
// no-ops. The table holds no renamed enum tags; enum text is passed
// through unchanged. It returns the rewritten key and text, or drop=true
// if the key should be ignored entirely.
//
// This is a representative subset of the original's much larger
// multi-decade table (see DESIGN.md): it exercises the mechanism
// (rename-with-transform, rename-only, drop) without reproducing every
// historical key.
func applyLegacyRewrite(key, text string) (newKey, newText string, drop bool, err error) {
	switch key {
	case "extrusion_width_ratio":
		// Historically a ratio of layer height; the modern key is a
		// percent-of-layer-height FloatOrPercent.
		f, perr := strconv.ParseFloat(text, 64)
		if perr != nil {
			return "", "", false, perr
		}
		return "extrusion_width", strconv.FormatFloat(f*100, 'f', -1, 64) + "%", false, nil

	case "solid_fill_pattern":
		// Renamed key: now split into top/bottom infill pattern. The old
		// single key maps onto bottom_infill_pattern only;
		// bottom_infill_pattern carries no Shortcut list, so
		// top_infill_pattern keeps its own value.
		return "bottom_infill_pattern", text, false, nil

	case "gcode_flavor", "support_material_tool", "duplicate_x", "duplicate_y":
		// Keys removed entirely upstream of this core; neutralized to a
		// no-op rather than surfaced as UnknownOptionError.
		return "", "", true, nil

	case "fill_density":
		// An old numeric default of "42" (percent-sign-less, pre-dating
		// the percent-typed option) must be neutralized to the new
		// default rather than taken literally.
		if text == "42" {
			return "fill_density", "20%", false, nil
		}
		return "fill_density", text, false, nil

	default:
		return key, text, false, nil
	}
}
