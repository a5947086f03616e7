package pipeline

import (
	"testing"

	"routeboard/domain/delivery"
)

func TestRouteRegion_PriorityOrder(t *testing.T) {
	rules := DefaultRules()

	cases := []struct {
		name    string
		vehicle string
		origin  string
		driver  string
		want    delivery.Region
	}{
		{"broker driver wins over everything", "VAN NESPRESSO", "PARI", "Elisama de Oliveira Pereira", delivery.RegionDafiti},
		{"nespresso token on vehicle", "FIORINO NESPRESSO 02", "", "Ciclano", delivery.RegionNespresso},
		{"nespresso token on origin", "", "CD Nespresso", "Ciclano", delivery.RegionNespresso},
		{"pari depot on vehicle", "VAN PARI 03", "", "Ciclano", delivery.RegionSaoPaulo},
		{"sp token on origin", "", "CD SP Leste", "Ciclano", delivery.RegionSaoPaulo},
		{"barueri depot", "VAN BARUERI 01", "", "Ciclano", delivery.RegionDafiti},
		{"rj vehicle", "VAN RJ 07", "", "Ciclano", delivery.RegionRio},
		{"rj origin", "", "São Cristóvão RJ", "Ciclano", delivery.RegionRio},
		{"nothing matches defaults", "VAN 09", "Garagem", "Ciclano", delivery.RegionDafiti},
		{"empty fields default", "", "", "Ciclano", delivery.RegionDafiti},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := rules.RouteRegion(tc.vehicle, tc.origin, tc.driver)
			if got != tc.want {
				t.Errorf("RouteRegion(%q, %q, %q) = %q, want %q",
					tc.vehicle, tc.origin, tc.driver, got, tc.want)
			}
		})
	}
}

func TestFleetRegion_BranchCodeExactMatch(t *testing.T) {
	rules := DefaultRules()

	cases := []struct {
		branch string
		want   delivery.Region
	}{
		{"SP", delivery.RegionSaoPaulo},
		{" sp ", delivery.RegionSaoPaulo},
		{"RJ", delivery.RegionRio},
		{"rj", delivery.RegionRio},
		{"SPX", delivery.RegionDafiti}, // exact match, not substring
		{"BARUERI", delivery.RegionDafiti},
		{"", delivery.RegionDafiti},
	}

	for _, tc := range cases {
		if got := rules.FleetRegion(tc.branch); got != tc.want {
			t.Errorf("FleetRegion(%q) = %q, want %q", tc.branch, got, tc.want)
		}
	}
}

func TestFleetRegion_SyntheticBranchTable(t *testing.T) {
	rules := Rules{BranchRegions: map[string]delivery.Region{"MG": delivery.RegionNespresso}}

	if got := rules.FleetRegion("mg"); got != delivery.RegionNespresso {
		t.Errorf("FleetRegion with synthetic table = %q, want %q", got, delivery.RegionNespresso)
	}
	if got := rules.FleetRegion("SP"); got != delivery.RegionDafiti {
		t.Errorf("FleetRegion outside synthetic table = %q, want default %q", got, delivery.RegionDafiti)
	}
}
