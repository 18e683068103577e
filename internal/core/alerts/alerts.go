package alerts

import (
	"fmt"
	"strings"
)

// Kind names a remaining-time threshold a user can opt into.
type Kind string

const (
	OneMinute         Kind = "oneMinute"
	FiveMinutes       Kind = "fiveMinutes"
	FiftyPercent      Kind = "fiftyPercent"
	TwentyFivePercent Kind = "twentyFivePercent"
)

// AllKinds lists every alert kind in evaluation order.
var AllKinds = []Kind{OneMinute, FiveMinutes, FiftyPercent, TwentyFivePercent}

// Set is the collection of enabled alert kinds.
type Set uint8

func bit(kind Kind) Set {
	for index, candidate := range AllKinds {
		if candidate == kind {
			return 1 << index
		}
	}
	return 0
}

// NewSet builds a set from the given kinds. Unknown kinds are ignored.
func NewSet(kinds ...Kind) Set {
	var set Set
	for _, kind := range kinds {
		set |= bit(kind)
	}
	return set
}

// ParseSet converts configuration names into a set.
func ParseSet(names []string) (Set, error) {
	var set Set
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		flag := bit(Kind(name))
		if flag == 0 {
			return set, fmt.Errorf("unknown alert kind %q", name)
		}
		set |= flag
	}
	return set, nil
}

// Has reports whether kind is enabled.
func (set Set) Has(kind Kind) bool {
	flag := bit(kind)
	return flag != 0 && set&flag != 0
}

// With returns a copy of the set with kind enabled or disabled.
func (set Set) With(kind Kind, enabled bool) Set {
	if enabled {
		return set | bit(kind)
	}
	return set &^ bit(kind)
}

// Kinds returns the enabled kinds in evaluation order.
func (set Set) Kinds() []Kind {
	kinds := make([]Kind, 0, len(AllKinds))
	for _, kind := range AllKinds {
		if set.Has(kind) {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Names returns the enabled kinds as plain strings.
func (set Set) Names() []string {
	kinds := set.Kinds()
	names := make([]string, len(kinds))
	for index, kind := range kinds {
		names[index] = string(kind)
	}
	return names
}

// Evaluate returns the enabled kinds whose threshold matches remaining exactly.
// Thresholds are exact-second checks, so callers must evaluate every second.
func Evaluate(remaining, total int, enabled Set) []Kind {
	var triggered []Kind
	for _, kind := range AllKinds {
		if !enabled.Has(kind) {
			continue
		}
		if remaining == threshold(kind, total) {
			triggered = append(triggered, kind)
		}
	}
	return triggered
}

func threshold(kind Kind, total int) int {
	switch kind {
	case OneMinute:
		return 60
	case FiveMinutes:
		return 300
	case FiftyPercent:
		return total / 2
	case TwentyFivePercent:
		return total / 4
	}
	return -1
}
