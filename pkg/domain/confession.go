package domain

import dErrors "swissshield/pkg/domain-errors"

// Confession is the religious affiliation a resignation letter is written for.
// Invariant: the value must be one of the supported confessions.
type Confession string

const (
	ConfessionCatholic Confession = "catholic"
	ConfessionReformed Confession = "reformed"
)

var validConfessions = map[Confession]bool{
	ConfessionCatholic: true,
	ConfessionReformed: true,
}

// ParseConfession constructs a Confession from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseConfession(s string) (Confession, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "confession cannot be empty")
	}
	c := Confession(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid confession")
	}
	return c, nil
}

// IsValid checks if the confession is one of the supported enum values.
func (c Confession) IsValid() bool {
	return validConfessions[c]
}

func (c Confession) String() string {
	return string(c)
}

// Confessions lists the supported confessions in display order.
func Confessions() []Confession {
	return []Confession{ConfessionCatholic, ConfessionReformed}
}
