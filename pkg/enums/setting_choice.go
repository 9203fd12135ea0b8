package enums

import (
	"fmt"
	"strings"
)

// SettingChoice is the jewelry form a stone is mounted into.
type SettingChoice string

const (
	SettingChoiceNecklace SettingChoice = "necklace"
	SettingChoiceRing     SettingChoice = "ring"
	SettingChoiceEarring  SettingChoice = "earring"
)

var validSettingChoices = []SettingChoice{
	SettingChoiceNecklace,
	SettingChoiceRing,
	SettingChoiceEarring,
}

// String implements fmt.Stringer.
func (s SettingChoice) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SettingChoice.
func (s SettingChoice) IsValid() bool {
	for _, candidate := range validSettingChoices {
		if candidate == s {
			return true
		}
	}
	return false
}

// SettingChoices returns every known SettingChoice in selector order.
func SettingChoices() []SettingChoice {
	return append([]SettingChoice(nil), validSettingChoices...)
}

// ParseSettingChoice converts raw input into a SettingChoice.
func ParseSettingChoice(value string) (SettingChoice, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validSettingChoices {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid setting choice %q", value)
}
