package enums

import "fmt"

// PackageType identifies a shipping package class with a fixed weight ceiling.
type PackageType string

const (
	PackageTypeEnvelope PackageType = "envelope"
	PackageTypeSmall    PackageType = "small"
	PackageTypeMedium   PackageType = "medium"
	PackageTypeLarge    PackageType = "large"
	PackageTypeHeavy    PackageType = "heavy"
)

var validPackageTypes = []PackageType{
	PackageTypeEnvelope,
	PackageTypeSmall,
	PackageTypeMedium,
	PackageTypeLarge,
	PackageTypeHeavy,
}

// packageMaxWeightsKg caps the declared weight each package class accepts.
var packageMaxWeightsKg = map[PackageType]float64{
	PackageTypeEnvelope: 0.5,
	PackageTypeSmall:    2,
	PackageTypeMedium:   5,
	PackageTypeLarge:    10,
	PackageTypeHeavy:    30,
}

// String implements fmt.Stringer.
func (p PackageType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PackageType.
func (p PackageType) IsValid() bool {
	for _, candidate := range validPackageTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// MaxWeightKg returns the weight ceiling for the package class.
func (p PackageType) MaxWeightKg() float64 {
	return packageMaxWeightsKg[p]
}

// PackageTypeForWeightKg returns the smallest package class whose ceiling
// fits the declared weight. The second return is false when no class fits.
func PackageTypeForWeightKg(weightKg float64) (PackageType, bool) {
	for _, candidate := range validPackageTypes {
		if weightKg <= packageMaxWeightsKg[candidate] {
			return candidate, true
		}
	}
	return "", false
}

// ParsePackageType converts raw input into a PackageType.
func ParsePackageType(value string) (PackageType, error) {
	for _, candidate := range validPackageTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid package type %q", value)
}
