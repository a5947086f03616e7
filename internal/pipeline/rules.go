// Package pipeline implements the spreadsheet normalization and
// reconciliation pipeline: schema detection, the two importers, the status
// reconciler and their supporting classifiers. Everything here is pure,
// synchronous data transformation over fully materialized rows; decoding and
// persistence live in the adapters.
package pipeline

import (
	"strings"

	"routeboard/domain/delivery"
)

// Rules carries the data-driven parts of the classification logic: the
// broker-exception drivers whose records are built from title text, the
// driver names excluded from fleet imports, and the branch-code table for
// the fleet region rule. They ship with compiled-in defaults and can be
// overridden from the rules file so the logic stays testable against
// synthetic lists.
type Rules struct {
	// BrokerDrivers take the title column as both code and title on import,
	// and key status rows by title during reconciliation. Matched exactly.
	BrokerDrivers []string `yaml:"broker_drivers"`

	// IgnoredRouteDrivers are dropped from route-export results when the
	// driver name matches exactly (case-insensitive).
	IgnoredRouteDrivers []string `yaml:"ignored_route_drivers"`

	// IgnoredFleetDrivers are dropped from fleet-management results when the
	// driver name contains the entry (case-insensitive).
	IgnoredFleetDrivers []string `yaml:"ignored_fleet_drivers"`

	// BranchRegions maps a fleet branch code (column K, upper-cased) to its
	// region. Codes outside the table classify as the default region.
	BranchRegions map[string]delivery.Region `yaml:"branch_regions"`
}

// DefaultRules returns the production lists observed in the real exports.
func DefaultRules() Rules {
	return Rules{
		BrokerDrivers: []string{
			"Aroldo Moreira da Silva Junior",
			"Elisama de Oliveira Pereira",
			"Joao Batista Carneiro",
			"Edson Rodrigues de Figueiredo",
			"Gabriel Silva de Figueiredo",
		},
		IgnoredRouteDrivers: nil,
		IgnoredFleetDrivers: []string{
			"Aroldo Moreira da Silva Junior",
			"Elisama de Oliveira Pereira",
			"João Batista Carneiro",
			"Edson Rodrigues de Figueiredo",
			"Gabriel Silva de Figueiredo",
		},
		BranchRegions: map[string]delivery.Region{
			"SP": delivery.RegionSaoPaulo,
			"RJ": delivery.RegionRio,
		},
	}
}

// IsBroker reports whether the driver is on the broker-exception list.
func (r Rules) IsBroker(driver string) bool {
	for _, name := range r.BrokerDrivers {
		if name == driver {
			return true
		}
	}
	return false
}

func (r Rules) isIgnoredRouteDriver(driver string) bool {
	for _, name := range r.IgnoredRouteDrivers {
		if strings.EqualFold(name, driver) {
			return true
		}
	}
	return false
}

func (r Rules) isIgnoredFleetDriver(driver string) bool {
	lower := strings.ToLower(driver)
	for _, name := range r.IgnoredFleetDrivers {
		if name != "" && strings.Contains(lower, strings.ToLower(name)) {
			return true
		}
	}
	return false
}
