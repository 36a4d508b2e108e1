package enums

import "fmt"

// AlertKind classifies a care alert raised against a product.
type AlertKind string

const (
	AlertKindWatering  AlertKind = "WATERING"
	AlertKindShelfLife AlertKind = "SHELF_LIFE"
	AlertKindOverstock AlertKind = "OVERSTOCK"
	AlertKindHighRisk  AlertKind = "HIGH_RISK"
)

var validAlertKinds = []AlertKind{
	AlertKindWatering,
	AlertKindShelfLife,
	AlertKindOverstock,
	AlertKindHighRisk,
}

// String implements fmt.Stringer.
func (a AlertKind) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AlertKind.
func (a AlertKind) IsValid() bool {
	for _, candidate := range validAlertKinds {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertKind converts raw input into an AlertKind.
func ParseAlertKind(value string) (AlertKind, error) {
	for _, candidate := range validAlertKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert kind %q", value)
}
