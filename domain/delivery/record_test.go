package delivery

import "testing"

func TestPercentage(t *testing.T) {
	cases := []struct {
		part, total, want int
	}{
		{37, 120, 31},
		{0, 120, 0},
		{120, 120, 100},
		{1, 3, 33},
		{2, 3, 67},
		{5, 0, 0},  // zero total never divides
		{5, -1, 0}, // corrupted totals degrade to zero
	}
	for _, tc := range cases {
		if got := Percentage(tc.part, tc.total); got != tc.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tc.part, tc.total, got, tc.want)
		}
	}
}

func TestClampNonNegative(t *testing.T) {
	if got := ClampNonNegative(-3); got != 0 {
		t.Errorf("ClampNonNegative(-3) = %d, want 0", got)
	}
	if got := ClampNonNegative(7); got != 7 {
		t.Errorf("ClampNonNegative(7) = %d, want 7", got)
	}
}

func TestRecomputePercentages(t *testing.T) {
	rec := Record{TotalOrders: 120, Delivered: 37, Pending: 60, Unsuccessful: 23}
	rec.RecomputePercentages()

	if rec.DeliveryPercentage != 31 {
		t.Errorf("deliveryPercentage = %d, want 31", rec.DeliveryPercentage)
	}
	if rec.RoutePercentage != 50 {
		t.Errorf("routePercentage = %d, want 50", rec.RoutePercentage)
	}

	empty := Record{}
	empty.RecomputePercentages()
	if empty.DeliveryPercentage != 0 || empty.RoutePercentage != 0 {
		t.Errorf("zero-order record percentages = %d/%d, want 0/0",
			empty.DeliveryPercentage, empty.RoutePercentage)
	}
}
