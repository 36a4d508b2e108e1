package alerts

import (
	"strings"
	"testing"
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
)

func intPtr(v int) *int { return &v }

func sensitivityPtr(v enums.ClimateSensitivity) *enums.ClimateSensitivity { return &v }

func testProduct(intakeDaysAgo int, now time.Time) models.Product {
	return models.Product{
		ID:         "abc123def456",
		Name:       "Monstera deliciosa",
		IntakeDate: now.AddDate(0, 0, -intakeDaysAgo),
	}
}

func TestEvaluateFreshProductRaisesNothing(t *testing.T) {
	now := time.Now()
	product := testProduct(1, now)

	desired := Evaluate(product, now)
	if len(desired) != 0 {
		t.Fatalf("expected no alerts, got %v", desired)
	}
}

func TestEvaluateWateringOverdueUsesIntakeWhenNeverWatered(t *testing.T) {
	now := time.Now()
	product := testProduct(5, now)

	desired := Evaluate(product, now)
	watering, ok := desired[enums.AlertKindWatering]
	if !ok {
		t.Fatal("expected watering alert")
	}
	if watering.Severity != enums.AlertSeverityWarning {
		t.Fatalf("severity = %s", watering.Severity)
	}
	if !strings.Contains(watering.Message, "lleva 5 días sin riego") {
		t.Fatalf("unexpected message %q", watering.Message)
	}
	if !strings.Contains(watering.Message, "cada 3 días") {
		t.Fatalf("expected default frequency in message %q", watering.Message)
	}
}

func TestEvaluateWateringUsesLastWateredWhenPresent(t *testing.T) {
	now := time.Now()
	product := testProduct(10, now)
	watered := now.AddDate(0, 0, -1)
	product.LastWateredAt = &watered

	desired := Evaluate(product, now)
	if _, ok := desired[enums.AlertKindWatering]; ok {
		t.Fatal("recently watered plant should not raise a watering alert")
	}
}

func TestEvaluateShelfLifeExceededIsCritical(t *testing.T) {
	now := time.Now()
	product := testProduct(31, now)
	watered := now
	product.LastWateredAt = &watered

	desired := Evaluate(product, now)
	shelf, ok := desired[enums.AlertKindShelfLife]
	if !ok {
		t.Fatal("expected shelf life alert")
	}
	if shelf.Severity != enums.AlertSeverityCritical {
		t.Fatalf("severity = %s", shelf.Severity)
	}
	if !strings.Contains(shelf.Message, "La vida útil estimada (30 días)") {
		t.Fatalf("unexpected message %q", shelf.Message)
	}
}

func TestEvaluateCustomShelfLife(t *testing.T) {
	now := time.Now()
	product := testProduct(8, now)
	product.ShelfLifeDays = intPtr(7)
	watered := now
	product.LastWateredAt = &watered

	desired := Evaluate(product, now)
	if _, ok := desired[enums.AlertKindShelfLife]; !ok {
		t.Fatal("expected shelf life alert with custom threshold")
	}
}

func TestEvaluateOverstockAfterTwentyDays(t *testing.T) {
	now := time.Now()
	product := testProduct(21, now)
	watered := now
	product.LastWateredAt = &watered
	product.ShelfLifeDays = intPtr(60)

	desired := Evaluate(product, now)
	over, ok := desired[enums.AlertKindOverstock]
	if !ok {
		t.Fatal("expected overstock alert")
	}
	if !strings.Contains(over.Message, "más de 20 días en vitrina") {
		t.Fatalf("unexpected message %q", over.Message)
	}
	if _, ok := desired[enums.AlertKindShelfLife]; ok {
		t.Fatal("shelf life should not trigger under custom threshold")
	}
}

func TestEvaluateHighRiskRequiresHighSensitivity(t *testing.T) {
	now := time.Now()
	product := testProduct(40, now)
	product.ClimateSensitivity = sensitivityPtr(enums.ClimateSensitivityMedium)

	desired := Evaluate(product, now)
	if _, ok := desired[enums.AlertKindHighRisk]; ok {
		t.Fatal("medium sensitivity must not raise high risk")
	}

	product.ClimateSensitivity = sensitivityPtr(enums.ClimateSensitivityHigh)
	desired = Evaluate(product, now)
	risk, ok := desired[enums.AlertKindHighRisk]
	if !ok {
		t.Fatal("expected high risk alert for sensitive plant past shelf life")
	}
	if risk.Severity != enums.AlertSeverityCritical {
		t.Fatalf("severity = %s", risk.Severity)
	}
}

func TestEvaluateHighRiskIgnoresWateringWhenNeverWatered(t *testing.T) {
	now := time.Now()
	product := testProduct(10, now)
	product.ClimateSensitivity = sensitivityPtr(enums.ClimateSensitivityHigh)

	// Watering is overdue relative to intake but the plant was never watered,
	// so only the watering alert opens.
	desired := Evaluate(product, now)
	if _, ok := desired[enums.AlertKindWatering]; !ok {
		t.Fatal("expected watering alert")
	}
	if _, ok := desired[enums.AlertKindHighRisk]; ok {
		t.Fatal("high risk must not trigger before the first recorded watering")
	}

	watered := now.AddDate(0, 0, -6)
	product.LastWateredAt = &watered
	desired = Evaluate(product, now)
	if _, ok := desired[enums.AlertKindHighRisk]; !ok {
		t.Fatal("expected high risk once watering is overdue after a recorded watering")
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	now := time.Now()
	product := testProduct(25, now)
	product.ClimateSensitivity = sensitivityPtr(enums.ClimateSensitivityHigh)

	first := Evaluate(product, now)
	second := Evaluate(product, now)
	if len(first) != len(second) {
		t.Fatalf("evaluation not stable: %v vs %v", first, second)
	}
	for kind, want := range first {
		got, ok := second[kind]
		if !ok || got != want {
			t.Fatalf("kind %s differs between runs", kind)
		}
	}
}
