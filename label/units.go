package label

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit constants and length parsing for label geometry.
// Label lengths are printer dots at 203 dpi (common thermal label heads);
// font machinery works in pt, the canvas backend in mm.

const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm

	DotsPerInch = 203.0
	MmPerInch   = 25.4

	DotsPerMm = DotsPerInch / MmPerInch
	DotToMm   = MmPerInch / DotsPerInch
	MmToDot   = 1.0 / DotToMm

	PtToDot = PtToMm * MmToDot
	DotToPt = 1.0 / PtToDot
)

// ParseLength parses a length string with an optional unit suffix and
// returns the value in printer dots. Bare numbers are taken as dots.
// Supported suffixes: dot, mm, cm, in, pt.
func ParseLength(value string) (float64, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, fmt.Errorf("长度为空")
	}
	unit := ""
	for _, suffix := range []string{"dot", "mm", "cm", "in", "pt"} {
		if strings.HasSuffix(v, suffix) {
			unit = suffix
			v = strings.TrimSpace(strings.TrimSuffix(v, suffix))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("长度不能为负数: %q", value)
	}
	switch unit {
	case "mm":
		return f * MmToDot, nil
	case "cm":
		return f * 10 * MmToDot, nil
	case "in":
		return f * DotsPerInch, nil
	case "pt":
		return f * PtToDot, nil
	case "dot", "":
		return f, nil
	default:
		return f, nil
	}
}
