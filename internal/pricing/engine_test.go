package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestOptimizePicksCheapestCombination(t *testing.T) {
	tiers := []Tier{
		{Quantity: 2, Price: dec("18")},
		{Quantity: 3, Price: dec("25")},
	}
	quote, err := Optimize(dec("10"), tiers, 5)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !quote.Total.Equal(dec("43")) {
		t.Fatalf("total = %s, want 43", quote.Total)
	}
	if len(quote.Allocations) != 2 {
		t.Fatalf("allocations = %+v, want one 2-pack and one 3-pack", quote.Allocations)
	}
	for _, alloc := range quote.Allocations {
		if alloc.Count != 1 {
			t.Fatalf("allocation %+v used %d times, want 1", alloc, alloc.Count)
		}
	}
}

func TestOptimizeFallsBackToUnitPrice(t *testing.T) {
	quote, err := Optimize(dec("7.50"), nil, 4)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !quote.Total.Equal(dec("30")) {
		t.Fatalf("total = %s, want 30", quote.Total)
	}
	if len(quote.Allocations) != 1 || quote.Allocations[0].Quantity != 1 || quote.Allocations[0].Count != 4 {
		t.Fatalf("allocations = %+v, want 4 single units", quote.Allocations)
	}
}

func TestOptimizeIgnoresTiersThatNeverPayOff(t *testing.T) {
	// A 3-pack priced above three units must never appear.
	tiers := []Tier{{Quantity: 3, Price: dec("31")}}
	quote, err := Optimize(dec("10"), tiers, 6)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !quote.Total.Equal(dec("60")) {
		t.Fatalf("total = %s, want 60", quote.Total)
	}
	for _, alloc := range quote.Allocations {
		if alloc.Quantity != 1 {
			t.Fatalf("used tier %+v despite being more expensive than units", alloc)
		}
	}
}

func TestOptimizeTieBreaksOnSmallerTier(t *testing.T) {
	// Both combinations cost 40; the 2+2 split wins because tiers are
	// evaluated in ascending quantity order.
	tiers := []Tier{
		{Quantity: 2, Price: dec("20")},
		{Quantity: 4, Price: dec("40")},
	}
	quote, err := Optimize(dec("11"), tiers, 4)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !quote.Total.Equal(dec("40")) {
		t.Fatalf("total = %s, want 40", quote.Total)
	}
	if len(quote.Allocations) != 1 || quote.Allocations[0].Quantity != 2 || quote.Allocations[0].Count != 2 {
		t.Fatalf("allocations = %+v, want two 2-packs", quote.Allocations)
	}
}

func TestOptimizeNeverExceedsUnitPricing(t *testing.T) {
	tiers := []Tier{
		{Quantity: 2, Price: dec("18")},
		{Quantity: 5, Price: dec("42")},
		{Quantity: 7, Price: dec("70.01")},
	}
	unit := dec("10")
	for quantity := 1; quantity <= 40; quantity++ {
		quote, err := Optimize(unit, tiers, quantity)
		if err != nil {
			t.Fatalf("Optimize(%d): %v", quantity, err)
		}
		ceiling := unit.Mul(decimal.NewFromInt(int64(quantity)))
		if quote.Total.GreaterThan(ceiling) {
			t.Fatalf("quantity %d: total %s exceeds unit pricing %s", quantity, quote.Total, ceiling)
		}
		covered := 0
		for _, alloc := range quote.Allocations {
			covered += alloc.Quantity * alloc.Count
		}
		if covered != quantity {
			t.Fatalf("quantity %d: allocations cover %d units", quantity, covered)
		}
	}
}

func TestOptimizeRejectsNonPositiveQuantity(t *testing.T) {
	if _, err := Optimize(dec("10"), nil, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("err = %v, want ErrInvalidQuantity", err)
	}
	if _, err := Optimize(dec("10"), nil, -3); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("err = %v, want ErrInvalidQuantity", err)
	}
}

func TestValidateTiers(t *testing.T) {
	cases := []struct {
		name  string
		tiers []Tier
		want  error
	}{
		{"empty", nil, nil},
		{"valid", []Tier{{2, dec("18")}, {3, dec("25")}}, nil},
		{"quantity one", []Tier{{1, dec("9")}}, ErrTierQuantity},
		{"zero price", []Tier{{2, dec("0")}}, ErrTierPrice},
		{"duplicate quantity", []Tier{{2, dec("18")}, {2, dec("17")}}, ErrTierDuplicate},
	}
	for _, tc := range cases {
		if err := ValidateTiers(tc.tiers); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestApplyPercentDiscount(t *testing.T) {
	if got := ApplyPercentDiscount(dec("43"), dec("10")); !got.Equal(dec("38.70")) {
		t.Fatalf("10%% off 43 = %s, want 38.70", got)
	}
	if got := ApplyPercentDiscount(dec("43"), dec("0")); !got.Equal(dec("43")) {
		t.Fatalf("0%% off 43 = %s, want 43", got)
	}
	// Half cents round away from zero.
	if got := ApplyPercentDiscount(dec("10.01"), dec("50")); !got.Equal(dec("5.01")) {
		t.Fatalf("50%% off 10.01 = %s, want 5.01", got)
	}
}

func TestPercentAmount(t *testing.T) {
	if got := PercentAmount(dec("200"), dec("12.5")); !got.Equal(dec("25")) {
		t.Fatalf("12.5%% of 200 = %s, want 25", got)
	}
	if got := PercentAmount(dec("200"), dec("0")); !got.IsZero() {
		t.Fatalf("0%% of 200 = %s, want 0", got)
	}
}
