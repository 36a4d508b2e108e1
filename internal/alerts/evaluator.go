package alerts

import (
	"fmt"
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
)

// Rule defaults applied when a product does not carry its own care settings.
const (
	DefaultWateringFrequencyDays = 3
	DefaultShelfLifeDays         = 30
	OverstockDays                = 20
)

// Desired describes an alert that should be open for a product.
type Desired struct {
	Message  string
	Severity enums.AlertSeverity
}

// AllKinds lists every alert kind the evaluator manages.
var AllKinds = []enums.AlertKind{
	enums.AlertKindWatering,
	enums.AlertKindShelfLife,
	enums.AlertKindOverstock,
	enums.AlertKindHighRisk,
}

// Evaluate computes the desired open alerts for a product at the given
// instant. Kinds absent from the result must be resolved. The function is
// pure so the same product state always yields the same verdict.
func Evaluate(product models.Product, now time.Time) map[enums.AlertKind]Desired {
	desired := make(map[enums.AlertKind]Desired)

	wateringFreq := DefaultWateringFrequencyDays
	if product.WateringFrequencyDays != nil && *product.WateringFrequencyDays > 0 {
		wateringFreq = *product.WateringFrequencyDays
	}
	shelfLife := DefaultShelfLifeDays
	if product.ShelfLifeDays != nil && *product.ShelfLifeDays > 0 {
		shelfLife = *product.ShelfLifeDays
	}

	wateringRef := product.IntakeDate
	if product.LastWateredAt != nil {
		wateringRef = *product.LastWateredAt
	}
	daysSinceWatering := daysBetween(wateringRef, now)
	if daysSinceWatering > wateringFreq {
		desired[enums.AlertKindWatering] = Desired{
			Message: fmt.Sprintf(
				"La planta '%s' lleva %d días sin riego (frecuencia recomendada: cada %d días).",
				product.Name, daysSinceWatering, wateringFreq,
			),
			Severity: enums.AlertSeverityWarning,
		}
	}

	daysOnShelf := daysBetween(product.IntakeDate, now)
	shelfLifeExceeded := daysOnShelf > shelfLife
	if shelfLifeExceeded {
		desired[enums.AlertKindShelfLife] = Desired{
			Message: fmt.Sprintf(
				"La vida útil estimada (%d días) para '%s' fue excedida.",
				shelfLife, product.Name,
			),
			Severity: enums.AlertSeverityCritical,
		}
	}

	if daysOnShelf > OverstockDays {
		desired[enums.AlertKindOverstock] = Desired{
			Message: fmt.Sprintf(
				"'%s' lleva más de %d días en vitrina. Considera una oferta.",
				product.Name, OverstockDays,
			),
			Severity: enums.AlertSeverityWarning,
		}
	}

	if product.ClimateSensitivity != nil && *product.ClimateSensitivity == enums.ClimateSensitivityHigh {
		// Watering overdue only counts toward risk once the plant has been
		// watered at least once.
		wateringOverdue := product.LastWateredAt != nil &&
			daysBetween(*product.LastWateredAt, now) > wateringFreq
		if wateringOverdue || shelfLifeExceeded {
			desired[enums.AlertKindHighRisk] = Desired{
				Message: fmt.Sprintf(
					"'%s' es muy sensible al clima y presenta condiciones de riesgo.",
					product.Name,
				),
				Severity: enums.AlertSeverityCritical,
			}
		}
	}

	return desired
}

func daysBetween(from, to time.Time) int {
	diff := to.Sub(from)
	if diff < 0 {
		return 0
	}
	return int(diff.Hours() / 24)
}
