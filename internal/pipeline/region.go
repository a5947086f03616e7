package pipeline

import (
	"strings"

	"routeboard/domain/delivery"
)

// Token table for the route-export classifier. Matching is substring
// containment over upper-cased vehicle and origin labels; the priority
// order below is part of the contract.
const (
	tokenNespresso = "NESPRESSO"
	tokenSaoPaulo  = "SP"
	tokenPari      = "PARI"
	tokenBarueri   = "BARUERI"
	tokenRio       = "RJ"
	tokenCristovao = "CRISTOVAO"
)

// RouteRegion classifies a route-export leg from its vehicle label, origin
// location and driver name. Total function: anything unmatched is Dafiti.
//
// Priority: broker-exception driver, Nespresso brand, São Paulo city/depot
// tokens, Barueri depot, Rio tokens, default.
func (r Rules) RouteRegion(vehicle, origin, driver string) delivery.Region {
	if r.IsBroker(driver) {
		return delivery.RegionDafiti
	}

	v := strings.ToUpper(vehicle)
	o := strings.ToUpper(origin)

	if strings.Contains(v, tokenNespresso) || strings.Contains(o, tokenNespresso) {
		return delivery.RegionNespresso
	}

	if (strings.Contains(v, tokenSaoPaulo) && strings.Contains(o, tokenPari)) ||
		strings.Contains(v, tokenPari) || strings.Contains(o, tokenSaoPaulo) {
		return delivery.RegionSaoPaulo
	}

	if strings.Contains(v, tokenBarueri) || strings.Contains(o, tokenBarueri) {
		return delivery.RegionDafiti
	}

	if (strings.Contains(v, tokenRio) && strings.Contains(o, tokenCristovao)) ||
		strings.Contains(v, tokenRio) || strings.Contains(o, tokenRio) {
		return delivery.RegionRio
	}

	return delivery.RegionDafiti
}

// FleetRegion classifies a fleet-management load from its branch code.
// Exact match against the branch table; unknown codes are Dafiti.
func (r Rules) FleetRegion(branch string) delivery.Region {
	code := strings.ToUpper(strings.TrimSpace(branch))
	if region, ok := r.BranchRegions[code]; ok {
		return region
	}
	return delivery.RegionDafiti
}
