package enums

import "fmt"

// Carrier identifies a supported shipping provider.
type Carrier string

const (
	CarrierUPS    Carrier = "ups"
	CarrierFedEx  Carrier = "fedex"
	CarrierDHL    Carrier = "dhl"
	CarrierPostal Carrier = "postal"
)

var validCarriers = []Carrier{
	CarrierUPS,
	CarrierFedEx,
	CarrierDHL,
	CarrierPostal,
}

// carrierTrackingPrefixes maps each carrier to its tracking number prefix.
var carrierTrackingPrefixes = map[Carrier]string{
	CarrierUPS:    "1Z",
	CarrierFedEx:  "FDX",
	CarrierDHL:    "DHL",
	CarrierPostal: "PST",
}

// String implements fmt.Stringer.
func (c Carrier) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Carrier.
func (c Carrier) IsValid() bool {
	for _, candidate := range validCarriers {
		if candidate == c {
			return true
		}
	}
	return false
}

// TrackingPrefix returns the carrier-specific tracking number prefix.
func (c Carrier) TrackingPrefix() string {
	return carrierTrackingPrefixes[c]
}

// ParseCarrier converts raw input into a Carrier.
func ParseCarrier(value string) (Carrier, error) {
	for _, candidate := range validCarriers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid carrier %q", value)
}
