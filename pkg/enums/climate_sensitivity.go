package enums

import "fmt"

// ClimateSensitivity grades how fragile a plant is under climate swings.
type ClimateSensitivity string

const (
	ClimateSensitivityLow    ClimateSensitivity = "LOW"
	ClimateSensitivityMedium ClimateSensitivity = "MEDIUM"
	ClimateSensitivityHigh   ClimateSensitivity = "HIGH"
)

var validClimateSensitivities = []ClimateSensitivity{
	ClimateSensitivityLow,
	ClimateSensitivityMedium,
	ClimateSensitivityHigh,
}

// String implements fmt.Stringer.
func (c ClimateSensitivity) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ClimateSensitivity.
func (c ClimateSensitivity) IsValid() bool {
	for _, candidate := range validClimateSensitivities {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseClimateSensitivity converts raw input into a ClimateSensitivity.
func ParseClimateSensitivity(value string) (ClimateSensitivity, error) {
	for _, candidate := range validClimateSensitivities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid climate sensitivity %q", value)
}
