// Package version models the (2.x floor, 3.x floor) requirement pairs that
// pyfloor computes, and the single merge primitive used to fold them.
//
// A slot in a pair is one of three things: a concrete minimum version
// ("needs at least 2.7 on the 2.x line"), no constraint, or the excluded
// marker ("this major line is never compatible"). Combine is monotonic,
// associative, and commutative, so facts can be folded in any order —
// including concurrently-produced per-file results.
package version

import "fmt"

// Ver is one slot of a Pair. The zero value means "no constraint".
type Ver struct {
	Major    int
	Minor    int
	excluded bool
}

// V returns a concrete minimum version.
func V(major, minor int) Ver {
	return Ver{Major: major, Minor: minor}
}

// Excluded is the marker for "this major line is not supported at all".
var Excluded = Ver{excluded: true}

// IsZero reports whether v carries no constraint.
func (v Ver) IsZero() bool { return !v.excluded && v.Major == 0 }

// IsExcluded reports whether v is the excluded marker.
func (v Ver) IsExcluded() bool { return v.excluded }

// isConcrete reports whether v asserts an actual minimum version.
func (v Ver) isConcrete() bool { return !v.excluded && v.Major != 0 }

// less orders concrete versions. Only meaningful when both sides are concrete.
func (v Ver) less(o Ver) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

// String renders "2.7" for concrete versions, "!" for the excluded marker,
// and "~" for no constraint.
func (v Ver) String() string {
	switch {
	case v.excluded:
		return "!"
	case v.IsZero():
		return "~"
	default:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
}

// Parse is the inverse of String. It accepts "!", "~", and "major.minor".
func Parse(s string) (Ver, error) {
	switch s {
	case "!":
		return Excluded, nil
	case "~":
		return Ver{}, nil
	}
	var major, minor int
	if _, err := fmt.Sscanf(s, "%d.%d", &major, &minor); err != nil {
		return Ver{}, fmt.Errorf("parse version %q: %w", s, err)
	}
	return V(major, minor), nil
}

// Pair is the two-slot version requirement: earliest compatible 2.x release
// and earliest compatible 3.x release. The zero Pair constrains nothing.
type Pair struct {
	V2 Ver
	V3 Ver
}

// P builds a Pair from two slots.
func P(v2, v3 Ver) Pair { return Pair{V2: v2, V3: v3} }

// IsZero reports whether the pair carries no constraint in either slot.
func (p Pair) IsZero() bool { return p.V2.IsZero() && p.V3.IsZero() }

// String renders pairs like "(2.7, 3.0)", "(!, 3.6)", "(2.0, ~)".
func (p Pair) String() string {
	return fmt.Sprintf("(%s, %s)", p.V2, p.V3)
}

// v2Only reports whether p rules out the 3.x line while requiring 2.x.
func (p Pair) v2Only() bool { return p.V3.IsExcluded() && p.V2.isConcrete() }

// v3Only reports whether p rules out the 2.x line while requiring 3.x.
func (p Pair) v3Only() bool { return p.V2.IsExcluded() && p.V3.isConcrete() }

// ConflictError reports that two combined requirements exclude opposite
// major lines: no interpreter can satisfy both.
type ConflictError struct {
	A, B Pair
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict: %s is irreconcilable with %s", e.A, e.B)
}

// Combine merges two pairs slot by slot:
//
//  1. If one side is locked to a single major line and the other side is
//     locked to the opposite line, the merge is contradictory.
//  2. A slot with no constraint takes the other side's value.
//  3. The excluded marker dominates any concrete requirement.
//  4. Two concrete requirements merge to their maximum.
func Combine(a, b Pair) (Pair, error) {
	if (a.v2Only() && b.v3Only()) || (a.v3Only() && b.v2Only()) {
		return Pair{}, &ConflictError{A: a, B: b}
	}
	return Pair{
		V2: combineVer(a.V2, b.V2),
		V3: combineVer(a.V3, b.V3),
	}, nil
}

func combineVer(a, b Ver) Ver {
	switch {
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	case a.excluded || b.excluded:
		return Excluded
	case a.less(b):
		return b
	default:
		return a
	}
}
