package enums

import "fmt"

// ReportGroupBy is the bucket size of the revenue report.
type ReportGroupBy string

const (
	ReportGroupByDay   ReportGroupBy = "day"
	ReportGroupByWeek  ReportGroupBy = "week"
	ReportGroupByMonth ReportGroupBy = "month"
)

var validReportGroupBys = []ReportGroupBy{
	ReportGroupByDay,
	ReportGroupByWeek,
	ReportGroupByMonth,
}

// String implements fmt.Stringer.
func (r ReportGroupBy) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReportGroupBy.
func (r ReportGroupBy) IsValid() bool {
	for _, candidate := range validReportGroupBys {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReportGroupBy converts raw input into a ReportGroupBy; empty means day.
func ParseReportGroupBy(value string) (ReportGroupBy, error) {
	if value == "" {
		return ReportGroupByDay, nil
	}
	for _, candidate := range validReportGroupBys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid group by %q", value)
}
