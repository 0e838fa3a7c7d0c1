package model

import "strings"

// Tier is a rank label, or the Unrated sentinel.
type Tier string

const (
	TierGod     Tier = "GOD"
	TierS       Tier = "S"
	TierA       Tier = "A"
	TierB       Tier = "B"
	TierC       Tier = "C"
	TierD       Tier = "D"
	TierUnrated Tier = "Unrated"
)

// Ranks is an ordered set of rank labels, best first.
type Ranks []Tier

var (
	DefaultRanks  = Ranks{TierS, TierA, TierB, TierC, TierD}
	ExtendedRanks = Ranks{TierGod, TierS, TierA, TierB, TierC, TierD}
)

// Contains reports whether t is one of the ranks. Unrated is never a rank.
func (r Ranks) Contains(t Tier) bool {
	for _, x := range r {
		if x == t {
			return true
		}
	}
	return false
}

// ParseTier maps raw onto ranks. Anything unrecognized becomes Unrated.
func ParseTier(raw string, ranks Ranks) Tier {
	t := Tier(strings.ToUpper(strings.TrimSpace(raw)))
	if ranks.Contains(t) {
		return t
	}
	return TierUnrated
}

// Status is the watch state of an item.
type Status string

const (
	StatusPlanned   Status = "PLANNED"
	StatusWatching  Status = "WATCHING"
	StatusCompleted Status = "COMPLETED"
	StatusDropped   Status = "DROPPED"
)

// DefaultStatus is used when a new item does not name one.
const DefaultStatus = StatusCompleted

// Statuses lists the closed set in display order.
var Statuses = []Status{StatusPlanned, StatusWatching, StatusCompleted, StatusDropped}

// ParseStatus normalizes raw. ok is false outside the closed set.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.Known()
}

// Known reports whether s is one of Statuses.
func (s Status) Known() bool {
	switch s {
	case StatusPlanned, StatusWatching, StatusCompleted, StatusDropped:
		return true
	}
	return false
}

// Label is the badge text shown next to an item. Unknown values have none.
func (s Status) Label() string {
	switch s {
	case StatusPlanned:
		return "planned"
	case StatusWatching:
		return "watching"
	case StatusCompleted:
		return "completed"
	case StatusDropped:
		return "dropped"
	}
	return ""
}
