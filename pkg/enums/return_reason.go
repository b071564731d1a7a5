package enums

import "fmt"

// ReturnReason captures why a customer initiated a return.
type ReturnReason string

const (
	ReturnReasonNotAsExpected   ReturnReason = "not_as_expected"
	ReturnReasonDamaged         ReturnReason = "damaged"
	ReturnReasonWrongItem       ReturnReason = "wrong_item"
	ReturnReasonChangedMind     ReturnReason = "changed_mind"
	ReturnReasonOrderedWrongOne ReturnReason = "ordered_wrong_product"
	ReturnReasonOther           ReturnReason = "other"
)

var validReturnReasons = []ReturnReason{
	ReturnReasonNotAsExpected,
	ReturnReasonDamaged,
	ReturnReasonWrongItem,
	ReturnReasonChangedMind,
	ReturnReasonOrderedWrongOne,
	ReturnReasonOther,
}

// String implements fmt.Stringer.
func (r ReturnReason) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReturnReason.
func (r ReturnReason) IsValid() bool {
	for _, candidate := range validReturnReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReturnReason converts raw input into a ReturnReason.
func ParseReturnReason(value string) (ReturnReason, error) {
	for _, candidate := range validReturnReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid return reason %q", value)
}
