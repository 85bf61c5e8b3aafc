package enums

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/wholesale-backend/pkg/fsm"
)

// DemandListStatus tracks a purchase request sent to a supplier.
type DemandListStatus string

const (
	DemandListStatusDraft     DemandListStatus = "Draft"
	DemandListStatusSubmitted DemandListStatus = "Submitted"
	DemandListStatusConfirmed DemandListStatus = "Confirmed"
	DemandListStatusPartial   DemandListStatus = "Partial"
	DemandListStatusFulfilled DemandListStatus = "Fulfilled"
	DemandListStatusCancelled DemandListStatus = "Cancelled"
)

var validDemandListStatuses = []DemandListStatus{
	DemandListStatusDraft,
	DemandListStatusSubmitted,
	DemandListStatusConfirmed,
	DemandListStatusPartial,
	DemandListStatusFulfilled,
	DemandListStatusCancelled,
}

// DemandListMachine is the transition table for demand list status changes.
var DemandListMachine = fsm.New("demand list", map[DemandListStatus][]DemandListStatus{
	DemandListStatusDraft:     {DemandListStatusSubmitted, DemandListStatusCancelled},
	DemandListStatusSubmitted: {DemandListStatusConfirmed, DemandListStatusPartial, DemandListStatusFulfilled, DemandListStatusCancelled},
	DemandListStatusConfirmed: {DemandListStatusPartial, DemandListStatusFulfilled, DemandListStatusCancelled},
	DemandListStatusPartial:   {DemandListStatusConfirmed, DemandListStatusFulfilled, DemandListStatusCancelled},
	DemandListStatusFulfilled: {},
	DemandListStatusCancelled: {},
})

// String implements fmt.Stringer.
func (d DemandListStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DemandListStatus.
func (d DemandListStatus) IsValid() bool {
	for _, candidate := range validDemandListStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the demand list can no longer change.
func (d DemandListStatus) IsTerminal() bool {
	return d == DemandListStatusFulfilled || d == DemandListStatusCancelled
}

// AcceptsDeliveries reports whether supplier availability may be recorded.
func (d DemandListStatus) AcceptsDeliveries() bool {
	return d == DemandListStatusSubmitted || d == DemandListStatusConfirmed
}

// ParseDemandListStatus converts raw input into a DemandListStatus, ignoring case.
func ParseDemandListStatus(value string) (DemandListStatus, error) {
	value = strings.TrimSpace(value)
	for _, candidate := range validDemandListStatuses {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid demand list status %q", value)
}
