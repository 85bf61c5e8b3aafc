package enums

import "fmt"

// DemandItemStatus reflects supplier availability for one demand list line.
type DemandItemStatus string

const (
	DemandItemStatusPending     DemandItemStatus = "Pending"
	DemandItemStatusAvailable   DemandItemStatus = "Available"
	DemandItemStatusUnavailable DemandItemStatus = "Unavailable"
	DemandItemStatusPartial     DemandItemStatus = "Partial"
)

var validDemandItemStatuses = []DemandItemStatus{
	DemandItemStatusPending,
	DemandItemStatusAvailable,
	DemandItemStatusUnavailable,
	DemandItemStatusPartial,
}

// String implements fmt.Stringer.
func (d DemandItemStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DemandItemStatus.
func (d DemandItemStatus) IsValid() bool {
	for _, candidate := range validDemandItemStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDemandItemStatus converts raw input into a DemandItemStatus.
func ParseDemandItemStatus(value string) (DemandItemStatus, error) {
	for _, candidate := range validDemandItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid demand item status %q", value)
}
