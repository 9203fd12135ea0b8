package enums

import (
	"fmt"
	"strings"
)

// StoneType distinguishes mined stones from lab-grown ones.
type StoneType string

const (
	StoneTypeNatural  StoneType = "natural"
	StoneTypeLabGrown StoneType = "lab_grown"
)

var validStoneTypes = []StoneType{
	StoneTypeNatural,
	StoneTypeLabGrown,
}

var stoneTypeAliases = map[string]StoneType{
	"lab-grown": StoneTypeLabGrown,
	"labgrown":  StoneTypeLabGrown,
}

// String implements fmt.Stringer.
func (s StoneType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StoneType.
func (s StoneType) IsValid() bool {
	for _, candidate := range validStoneTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStoneType converts raw input into a StoneType, accepting the hyphenated
// and compact lab-grown spellings.
func ParseStoneType(value string) (StoneType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validStoneTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	if alias, ok := stoneTypeAliases[normalized]; ok {
		return alias, nil
	}
	return "", fmt.Errorf("invalid stone type %q", value)
}
