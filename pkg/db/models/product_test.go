package models

import "testing"

func TestEffectivePrice(t *testing.T) {
	cases := []struct {
		name     string
		price    int
		discount int
		want     int
	}{
		{"no discount", 12990, 0, 12990},
		{"exact division", 10000, 20, 8000},
		{"rounds down below half", 151, 1, 149},
		{"rounds up above half", 167, 45, 92},
		{"half lands on even, down", 150, 1, 148},
		{"half lands on even, up", 250, 1, 248},
		{"full discount clamps at zero", 5000, 100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Product{Price: tc.price, DiscountPct: tc.discount}
			if got := p.EffectivePrice(); got != tc.want {
				t.Fatalf("EffectivePrice(%d, %d%%) = %d, want %d", tc.price, tc.discount, got, tc.want)
			}
		})
	}
}
