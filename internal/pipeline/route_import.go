package pipeline

import (
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"

	"routeboard/adapters/excel"
	"routeboard/domain/delivery"
)

// Row-type markers in column A of the route-planner export.
const (
	markerAgent   = "Agente:"
	markerVehicle = "Veículo:"
	markerStart   = "Início:"
)

// routeLeg accumulates one driver trip while scanning the export.
type routeLeg struct {
	vehicle string
	origin  string
	codes   []string
	titles  []string
}

// routeAccumulator is the explicit fold state threaded through the row scan:
// the driver whose rows are currently being read, plus every leg collected
// per driver in first-seen order.
type routeAccumulator struct {
	currentDriver string
	driverOrder   []string
	legs          map[string][]*routeLeg
}

// ImportRouteExport parses the route-planner schema into one record per
// driver leg. Column A carries a row-type marker, column B its value, and
// columns G/H hold service-code/title pairs while a driver block is open.
func (r Rules) ImportRouteExport(rows []excel.Row) []delivery.Record {
	log.Printf("[RouteImporter] Processing route export (%d rows)", len(rows))

	acc := routeAccumulator{legs: make(map[string][]*routeLeg)}

	for _, row := range rows {
		cellA := row.Get("A")
		driverCell := row.Get("B")

		switch {
		case cellA == "" && !row.Has("G", "H"):
			continue

		case strings.Contains(cellA, markerAgent) && driverCell != "":
			acc.currentDriver = driverCell
			if _, seen := acc.legs[driverCell]; !seen {
				acc.driverOrder = append(acc.driverOrder, driverCell)
			}
			acc.legs[driverCell] = append(acc.legs[driverCell], &routeLeg{})

		case strings.Contains(cellA, markerVehicle) && driverCell != "" && acc.currentDriver != "":
			if leg := acc.lastLeg(); leg != nil {
				leg.vehicle = driverCell
			}

		case strings.Contains(cellA, markerStart) && driverCell != "" && acc.currentDriver != "":
			if leg := acc.lastLeg(); leg != nil {
				leg.origin = driverCell
			}

		case row.Has("G", "H") && acc.currentDriver != "":
			leg := acc.lastLeg()
			if leg == nil {
				continue
			}
			code := row.Get("G")
			title := row.Get("H")
			if code == "" {
				code = title
			}

			if r.IsBroker(acc.currentDriver) {
				// Broker-exception drivers track deliveries by title only.
				if title != "" {
					leg.codes = append(leg.codes, title)
					leg.titles = append(leg.titles, title)
				}
			} else if code != "" {
				leg.codes = append(leg.codes, code)
				leg.titles = append(leg.titles, title)
			}
		}
	}

	result := make([]delivery.Record, 0, len(acc.driverOrder))
	for _, driver := range acc.driverOrder {
		if r.isIgnoredRouteDriver(driver) {
			continue
		}
		isBroker := r.IsBroker(driver)
		driverLegs := acc.legs[driver]

		for _, leg := range driverLegs {
			totalOrders := len(leg.codes)
			codes := leg.codes
			if isBroker {
				totalOrders = len(leg.titles)
				codes = leg.titles
			}

			rec := delivery.Record{
				ID:          uuid.NewString(),
				Driver:      driver,
				Region:      r.RouteRegion(leg.vehicle, leg.origin, driver),
				TotalOrders: totalOrders,
				// Every leg of a driver reports that driver's full leg count.
				Routes:            len(driverLegs),
				Pending:           totalOrders,
				ServiceCodes:      append([]string(nil), codes...),
				SuccessfulCodes:   []string{},
				UnsuccessfulCodes: []string{},
				SenderMap:         map[string]string{},
			}
			result = append(result, rec)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DeliveryPercentage < result[j].DeliveryPercentage
	})

	log.Printf("[RouteImporter] Built %d leg records for %d drivers",
		len(result), len(acc.driverOrder))
	return result
}

func (a *routeAccumulator) lastLeg() *routeLeg {
	driverLegs := a.legs[a.currentDriver]
	if len(driverLegs) == 0 {
		return nil
	}
	return driverLegs[len(driverLegs)-1]
}
