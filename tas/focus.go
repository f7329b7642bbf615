// SPDX-License-Identifier: MIT

package tas

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/tasreso/reso"
)

// Focus overrides the crystal curvature flags of the instrument file at
// every SetHKLE. Flags combine with |; flat flags are applied before the
// curved ones.
type Focus uint

const (
	FocusNone     Focus = 0
	FocusMonoFlat Focus = 1 << 0
	FocusMonoH    Focus = 1 << 1
	FocusMonoV    Focus = 1 << 2
	FocusAnaH     Focus = 1 << 3
	FocusAnaV     Focus = 1 << 4
	FocusAnaFlat  Focus = 1 << 5

	// FocusUnchanged keeps the curvature flags exactly as configured,
	// whatever other bits are set.
	FocusUnchanged Focus = 1 << 31
)

var focusNames = []struct {
	f    Focus
	name string
}{
	{FocusMonoFlat, "mono_flat"},
	{FocusMonoH, "mono_h"},
	{FocusMonoV, "mono_v"},
	{FocusAnaFlat, "ana_flat"},
	{FocusAnaH, "ana_h"},
	{FocusAnaV, "ana_v"},
	{FocusUnchanged, "unchanged"},
}

// ParseFocus combines names such as "mono_h", "ana_flat" or "unchanged".
// "none" and the empty string select FocusNone.
func ParseFocus(names ...string) (Focus, error) {
	var f Focus
outer:
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || n == "none" {
			continue
		}
		for _, fn := range focusNames {
			if fn.name == n {
				f |= fn.f
				continue outer
			}
		}
		return 0, fmt.Errorf("focus %q: %w", n, ErrBadConfig)
	}

	return f, nil
}

func (f Focus) String() string {
	if f == FocusNone {
		return "none"
	}
	var parts []string
	for _, fn := range focusNames {
		if f&fn.f != 0 {
			parts = append(parts, fn.name)
		}
	}

	return strings.Join(parts, "|")
}

// apply sets the curvature flags of p and reports whether anything changed.
func (f Focus) apply(p *reso.TASParams) bool {
	if f&FocusUnchanged != 0 || f == FocusNone {
		return false
	}
	before := *p
	if f&FocusMonoFlat != 0 {
		p.MonoCurvedH, p.MonoCurvedV = false, false
	}
	if f&FocusMonoH != 0 {
		p.MonoCurvedH, p.MonoOptimalH = true, true
	}
	if f&FocusMonoV != 0 {
		p.MonoCurvedV, p.MonoOptimalV = true, true
	}
	if f&FocusAnaFlat != 0 {
		p.AnaCurvedH, p.AnaCurvedV = false, false
	}
	if f&FocusAnaH != 0 {
		p.AnaCurvedH, p.AnaOptimalH = true, true
	}
	if f&FocusAnaV != 0 {
		p.AnaCurvedV, p.AnaOptimalV = true, true
	}

	return before.MonoCurvedH != p.MonoCurvedH || before.MonoCurvedV != p.MonoCurvedV ||
		before.MonoOptimalH != p.MonoOptimalH || before.MonoOptimalV != p.MonoOptimalV ||
		before.AnaCurvedH != p.AnaCurvedH || before.AnaCurvedV != p.AnaCurvedV ||
		before.AnaOptimalH != p.AnaOptimalH || before.AnaOptimalV != p.AnaOptimalV
}
