package shipping

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mercanto/storefront-backend/pkg/enums"
)

// rateKey addresses one cell of the carrier/package cost table.
type rateKey struct {
	Carrier     enums.Carrier
	PackageType enums.PackageType
}

// RateTable holds the base shipping cost per (carrier, package type) pair.
// The table is immutable after construction and safe for concurrent reads.
type RateTable struct {
	costs map[rateKey]decimal.Decimal
}

// Rate is one row of the public rate listing.
type Rate struct {
	Carrier     enums.Carrier     `json:"carrier"`
	PackageType enums.PackageType `json:"package_type"`
	MaxWeightKg float64           `json:"max_weight_kg"`
	Cost        decimal.Decimal   `json:"cost"`
}

// NewRateTable validates and indexes the provided rates. Every entry must
// reference a known carrier and package type and a non-negative cost.
func NewRateTable(rates []Rate) (*RateTable, error) {
	if len(rates) == 0 {
		return nil, fmt.Errorf("rate table requires at least one entry")
	}
	costs := make(map[rateKey]decimal.Decimal, len(rates))
	for _, rate := range rates {
		if !rate.Carrier.IsValid() {
			return nil, fmt.Errorf("rate table references unknown carrier %q", rate.Carrier)
		}
		if !rate.PackageType.IsValid() {
			return nil, fmt.Errorf("rate table references unknown package type %q", rate.PackageType)
		}
		if rate.Cost.IsNegative() {
			return nil, fmt.Errorf("rate table cost for %s/%s is negative", rate.Carrier, rate.PackageType)
		}
		key := rateKey{Carrier: rate.Carrier, PackageType: rate.PackageType}
		if _, exists := costs[key]; exists {
			return nil, fmt.Errorf("duplicate rate for %s/%s", rate.Carrier, rate.PackageType)
		}
		costs[key] = rate.Cost
	}
	return &RateTable{costs: costs}, nil
}

// DefaultRates is the built-in cost table covering every carrier and
// package class.
func DefaultRates() []Rate {
	carriers := []enums.Carrier{enums.CarrierUPS, enums.CarrierFedEx, enums.CarrierDHL, enums.CarrierPostal}
	base := map[enums.PackageType]string{
		enums.PackageTypeEnvelope: "4.50",
		enums.PackageTypeSmall:    "7.90",
		enums.PackageTypeMedium:   "12.40",
		enums.PackageTypeLarge:    "19.90",
		enums.PackageTypeHeavy:    "34.00",
	}
	surcharge := map[enums.Carrier]string{
		enums.CarrierUPS:    "1.20",
		enums.CarrierFedEx:  "1.50",
		enums.CarrierDHL:    "2.10",
		enums.CarrierPostal: "0",
	}

	rates := make([]Rate, 0, len(carriers)*len(base))
	for _, carrier := range carriers {
		for pkg, cost := range base {
			rates = append(rates, Rate{
				Carrier:     carrier,
				PackageType: pkg,
				MaxWeightKg: pkg.MaxWeightKg(),
				Cost:        decimal.RequireFromString(cost).Add(decimal.RequireFromString(surcharge[carrier])),
			})
		}
	}
	return rates
}

// Cost returns the base cost for the carrier/package pair.
func (t *RateTable) Cost(carrier enums.Carrier, packageType enums.PackageType) (decimal.Decimal, bool) {
	cost, ok := t.costs[rateKey{Carrier: carrier, PackageType: packageType}]
	return cost, ok
}

// List returns the table contents for the operator-facing rates view.
func (t *RateTable) List() []Rate {
	rates := make([]Rate, 0, len(t.costs))
	for key, cost := range t.costs {
		rates = append(rates, Rate{
			Carrier:     key.Carrier,
			PackageType: key.PackageType,
			MaxWeightKg: key.PackageType.MaxWeightKg(),
			Cost:        cost,
		})
	}
	return rates
}
