package directive

import (
	"fmt"
	"runtime"
	"strconv"
)

// Platform predicates accepted by the "when" key.
const (
	WhenDarwin = "os.darwin"
	WhenWin32  = "os.win32"
)

// ReasonSection is the disabled reason of every section directive.
const ReasonSection = "section"

// DisabledReason explains why d may not run on a host with the given GOOS.
// It returns "" when the directive is eligible. The first matching rule
// wins:
//
//  1. sections are never executable on their own;
//  2. a truthy disabled flag;
//  3. a "when" predicate that does not match the host. Unknown predicates
//     never match.
func DisabledReason(d *Directive, goos string) string {
	if d.Action.Kind == ActionSection {
		return ReasonSection
	}

	if flagSet(d.Disabled) {
		return KeyDisabled + "=" + d.Disabled
	}

	switch d.When {
	case "":
		return ""
	case WhenDarwin:
		if goos != "darwin" && goos != "ios" {
			return "when!=" + WhenDarwin
		}
	case WhenWin32:
		if goos != "windows" {
			return "when!=" + WhenWin32
		}
	default:
		return fmt.Sprintf("unrecognized predicate when=%s", d.When)
	}

	return ""
}

// IsDisabled evaluates [DisabledReason] for the current host.
func IsDisabled(d *Directive) string {
	return DisabledReason(d, runtime.GOOS)
}

// flagSet treats any non-empty value as set unless it parses as false.
func flagSet(value string) bool {
	if len(value) == 0 {
		return false
	}

	b, err := strconv.ParseBool(value)

	return err != nil || b
}

// Select returns the directives that are candidates for execution, in order.
// Disabled directives are kept when includeDisabled is set, so callers can
// display them.
func Select(directives []*Directive, includeDisabled bool) []*Directive {
	selected := make([]*Directive, 0, len(directives))

	for _, d := range directives {
		if d.Action.Kind == ActionNone {
			continue
		}

		if !d.Eligible() && !includeDisabled {
			continue
		}

		selected = append(selected, d)
	}

	return selected
}

// Totals counts directives by eligibility.
type Totals struct {
	Active   int
	Disabled int
	Total    int
}

// Summarize counts the active and disabled directives.
func Summarize(directives []*Directive) Totals {
	var totals Totals

	for _, d := range directives {
		if d.Eligible() {
			totals.Active++
		} else {
			totals.Disabled++
		}

		totals.Total++
	}

	return totals
}
