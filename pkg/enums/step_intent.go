package enums

import "fmt"

// StepIntent qualifies why a shopper is moving between wizard steps.
type StepIntent string

const (
	StepIntentSelect StepIntent = "select"
	StepIntentChange StepIntent = "change"
	StepIntentView   StepIntent = "view"
	StepIntentCard   StepIntent = "card"
)

var validStepIntents = []StepIntent{
	StepIntentSelect,
	StepIntentChange,
	StepIntentView,
	StepIntentCard,
}

// String implements fmt.Stringer.
func (s StepIntent) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StepIntent.
func (s StepIntent) IsValid() bool {
	for _, candidate := range validStepIntents {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsChange reports whether the intent discards the downstream selection.
func (s StepIntent) IsChange() bool {
	return s == StepIntentChange || s == StepIntentCard
}

// ParseStepIntent converts raw input into a StepIntent; empty input means no intent.
func ParseStepIntent(value string) (StepIntent, error) {
	if value == "" {
		return "", nil
	}
	for _, candidate := range validStepIntents {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid step intent %q", value)
}
