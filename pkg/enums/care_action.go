package enums

import "fmt"

// CareAction identifies a manual plant care intervention.
type CareAction string

const (
	CareActionWatering      CareAction = "WATERING"
	CareActionPruning       CareAction = "PRUNING"
	CareActionRepotting     CareAction = "REPOTTING"
	CareActionLifeExtension CareAction = "LIFE_EXTENSION"
)

var validCareActions = []CareAction{
	CareActionWatering,
	CareActionPruning,
	CareActionRepotting,
	CareActionLifeExtension,
}

// String implements fmt.Stringer.
func (c CareAction) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CareAction.
func (c CareAction) IsValid() bool {
	for _, candidate := range validCareActions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCareAction converts raw input into a CareAction.
func ParseCareAction(value string) (CareAction, error) {
	for _, candidate := range validCareActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid care action %q", value)
}
