// Package delivery holds the unified per-driver delivery record produced by
// the import pipeline and consumed by the reconciler, the merger and the
// presentation layer.
package delivery

import "math"

// Region is the closed set of operating regions a record can belong to.
// Classification never fails: anything unmatched falls back to RegionDafiti.
type Region string

const (
	RegionDafiti    Region = "Dafiti"
	RegionSaoPaulo  Region = "São Paulo"
	RegionRio       Region = "Rio De Janeiro"
	RegionNespresso Region = "Nespresso"
)

// Record is one normalized delivery aggregate: a single route leg for
// route-export imports, or a single load for fleet-management imports.
type Record struct {
	ID                 string            `json:"id" db:"id"`
	Driver             string            `json:"driver" db:"driver"`
	Region             Region            `json:"region" db:"region"`
	TotalOrders        int               `json:"totalOrders" db:"total_orders"`
	Routes             int               `json:"routes" db:"routes"`
	Delivered          int               `json:"delivered" db:"delivered"`
	Pending            int               `json:"pending" db:"pending"`
	Unsuccessful       int               `json:"unsuccessful" db:"unsuccessful"`
	DeliveryPercentage int               `json:"deliveryPercentage" db:"delivery_percentage"`
	RoutePercentage    int               `json:"routePercentage" db:"route_percentage"`
	ServiceCodes       []string          `json:"serviceCodes"`
	SuccessfulCodes    []string          `json:"successfulCodes"`
	UnsuccessfulCodes  []string          `json:"unsuccessfulCodes"`
	SenderMap          map[string]string `json:"senderMap"`
}

// Percentage computes round(part/total*100), 0 when total is 0.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// ClampNonNegative clamps negative counts to zero. Negative intermediate
// values indicate corrupted upstream data and must never surface.
func ClampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// RecomputePercentages refreshes both derived percentages from the current
// counts. RoutePercentage tracks completed work: everything except pending.
func (r *Record) RecomputePercentages() {
	r.DeliveryPercentage = Percentage(r.Delivered, r.TotalOrders)
	r.RoutePercentage = Percentage(r.TotalOrders-r.Pending, r.TotalOrders)
}
