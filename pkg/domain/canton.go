package domain

import (
	"strings"

	dErrors "swissshield/pkg/domain-errors"
)

// Canton is a Swiss canton code such as "ZH" or "GE".
// Invariant: values built by ParseCanton are one of the 26 official codes.
//
// Usage: construct via ParseCanton at trust boundaries. Address resolution also
// accepts raw casts: an unknown code simply does not match any directory entry.
type Canton string

var validCantons = map[Canton]bool{
	"AG": true, "AI": true, "AR": true, "BE": true, "BL": true, "BS": true,
	"FR": true, "GE": true, "GL": true, "GR": true, "JU": true, "LU": true,
	"NE": true, "NW": true, "OW": true, "SG": true, "SH": true, "SO": true,
	"SZ": true, "TG": true, "TI": true, "UR": true, "VD": true, "VS": true,
	"ZG": true, "ZH": true,
}

// ParseCanton constructs a Canton from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or not an official
// canton code. Lower-case input is rejected rather than normalized.
func ParseCanton(s string) (Canton, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "canton cannot be empty")
	}
	c := Canton(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid canton")
	}
	return c, nil
}

// IsValid reports whether the code is an official canton code.
func (c Canton) IsValid() bool {
	return validCantons[c]
}

func (c Canton) String() string {
	return string(c)
}

// Lower returns the lower-case code, used in URLs and filenames.
func (c Canton) Lower() string {
	return strings.ToLower(string(c))
}
