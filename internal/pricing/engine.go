// Package pricing computes the cheapest tier combination for a
// requested quantity and applies percent discounts on top of it. It is
// pure: no persistence, no clock.
package pricing

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity the requested quantity is not positive.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrTierQuantity a pack tier covers fewer than 2 units.
	ErrTierQuantity = errors.New("pack tier quantity must be at least 2")
	// ErrTierPrice a pack tier price is not positive.
	ErrTierPrice = errors.New("pack tier price must be positive")
	// ErrTierDuplicate two pack tiers share the same quantity.
	ErrTierDuplicate = errors.New("duplicate pack tier quantity")
)

// Tier a purchasable quantity at a fixed total price.
type Tier struct {
	Quantity int
	Price    decimal.Decimal
}

// Allocation one tier used Count times within the optimal combination.
type Allocation struct {
	Quantity int
	Price    decimal.Decimal
	Count    int
}

// Quote optimizer result: the minimal total and the combination that
// produces it.
type Quote struct {
	Total       decimal.Decimal
	Allocations []Allocation
}

// ValidateTiers checks a pack tier set: quantity at least 2, positive
// price, no duplicate quantities.
func ValidateTiers(tiers []Tier) error {
	seen := make(map[int]struct{}, len(tiers))
	for _, tier := range tiers {
		if tier.Quantity < 2 {
			return ErrTierQuantity
		}
		if tier.Price.LessThanOrEqual(decimal.Zero) {
			return ErrTierPrice
		}
		if _, ok := seen[tier.Quantity]; ok {
			return ErrTierDuplicate
		}
		seen[tier.Quantity] = struct{}{}
	}
	return nil
}

// Optimize finds the cheapest way to cover quantity units from the unit
// price plus the pack tiers (each usable any number of times). Unbounded
// knapsack over positions 0..quantity with parent-pointer
// reconstruction; ties resolve to the smallest tier quantity because
// tiers are evaluated in ascending order and only a strictly cheaper
// candidate replaces the incumbent. O(quantity × tierCount).
func Optimize(unitPrice decimal.Decimal, tiers []Tier, quantity int) (Quote, error) {
	if quantity <= 0 {
		return Quote{}, ErrInvalidQuantity
	}
	if err := ValidateTiers(tiers); err != nil {
		return Quote{}, err
	}

	// The implicit quantity-1 tier guarantees every position is
	// reachable.
	all := make([]Tier, 0, len(tiers)+1)
	all = append(all, Tier{Quantity: 1, Price: unitPrice})
	all = append(all, tiers...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Quantity < all[j].Quantity
	})

	best := make([]decimal.Decimal, quantity+1)
	parent := make([]int, quantity+1)
	reached := make([]bool, quantity+1)
	reached[0] = true
	best[0] = decimal.Zero

	for position := 1; position <= quantity; position++ {
		for tierIndex, tier := range all {
			if tier.Quantity > position || !reached[position-tier.Quantity] {
				continue
			}
			candidate := best[position-tier.Quantity].Add(tier.Price)
			if !reached[position] || candidate.LessThan(best[position]) {
				best[position] = candidate
				parent[position] = tierIndex
				reached[position] = true
			}
		}
	}

	if !reached[quantity] {
		// Unreachable cannot happen with the unit tier present; fall
		// back to pure unit pricing.
		total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
		return Quote{
			Total: total,
			Allocations: []Allocation{{
				Quantity: 1,
				Price:    unitPrice,
				Count:    quantity,
			}},
		}, nil
	}

	counts := make(map[int]int)
	for position := quantity; position > 0; {
		tierIndex := parent[position]
		counts[tierIndex]++
		position -= all[tierIndex].Quantity
	}

	allocations := make([]Allocation, 0, len(counts))
	for tierIndex, tier := range all {
		count, ok := counts[tierIndex]
		if !ok {
			continue
		}
		allocations = append(allocations, Allocation{
			Quantity: tier.Quantity,
			Price:    tier.Price,
			Count:    count,
		})
	}

	return Quote{Total: best[quantity], Allocations: allocations}, nil
}

// ApplyPercentDiscount reduces amount by percent (0..100), rounded to 2
// decimals. Non-positive percents leave the amount unchanged.
func ApplyPercentDiscount(amount, percent decimal.Decimal) decimal.Decimal {
	if percent.LessThanOrEqual(decimal.Zero) {
		return amount.Round(2)
	}
	share := percent.Div(decimal.NewFromInt(100))
	return amount.Sub(amount.Mul(share)).Round(2)
}

// PercentAmount returns the percent share of amount rounded to 2
// decimals.
func PercentAmount(amount, percent decimal.Decimal) decimal.Decimal {
	if percent.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return amount.Mul(percent).Div(decimal.NewFromInt(100)).Round(2)
}
