package pipeline

import (
	"log"
	"sort"
	"strconv"
	"strings"

	"routeboard/adapters/excel"
	"routeboard/domain/delivery"
)

// headerScanWindow bounds the search for the fleet-management header row.
const headerScanWindow = 10

// ImportFleetManagement parses the fleet-management schema into one record
// per load. The header row is located by content within the first ten rows;
// when it cannot be found the import yields an empty result rather than an
// error, per the degrade-everything contract.
func (r Rules) ImportFleetManagement(rows []excel.Row) []delivery.Record {
	log.Printf("[FleetImporter] Processing fleet-management export (%d rows)", len(rows))

	headerIdx := findFleetHeader(rows)
	if headerIdx < 0 {
		log.Printf("[FleetImporter] Header row not found in first %d rows, yielding empty result", headerScanWindow)
		return []delivery.Record{}
	}

	result := make([]delivery.Record, 0, len(rows)-headerIdx-1)
	for _, row := range rows[headerIdx+1:] {
		loadID := row.Get("A")
		driver := row.Get("F")
		unitCount, _ := strconv.Atoi(row.Get("P"))
		branch := row.Get("K")

		if driver == "" {
			driver = loadID
		}
		if loadID == "" || driver == "" || unitCount <= 0 {
			continue
		}

		result = append(result, delivery.Record{
			// The load id is the natural key: status sheets reference it.
			ID:          loadID,
			Driver:      driver,
			Region:      r.FleetRegion(branch),
			TotalOrders: unitCount,
			Routes:      1,
			Pending:     unitCount,
			// Unit-level service codes are deliberately not synthesized for
			// fleet loads; status updates arrive as aggregate counts.
			ServiceCodes:      []string{},
			SuccessfulCodes:   []string{},
			UnsuccessfulCodes: []string{},
			SenderMap:         map[string]string{},
		})
	}

	filtered := result[:0]
	dropped := 0
	for _, rec := range result {
		if r.isIgnoredFleetDriver(rec.Driver) {
			dropped++
			continue
		}
		filtered = append(filtered, rec)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].DeliveryPercentage < filtered[j].DeliveryPercentage
	})

	log.Printf("[FleetImporter] Built %d load records (%d ignored drivers dropped)",
		len(filtered), dropped)
	return filtered
}

// findFleetHeader returns the index of the header row, or -1. The header is
// recognized by content, not position: column A names the load id, F the
// driver, P the unit quantity and Q the loading user.
func findFleetHeader(rows []excel.Row) int {
	limit := len(rows)
	if limit > headerScanWindow {
		limit = headerScanWindow
	}

	for i := 0; i < limit; i++ {
		a := strings.ToLower(rows[i].Get("A"))
		f := strings.ToLower(rows[i].Get("F"))
		p := strings.ToLower(rows[i].Get("P"))
		q := strings.ToLower(rows[i].Get("Q"))

		if strings.Contains(a, "id") && strings.Contains(a, "carga") &&
			strings.Contains(f, "motorista") &&
			strings.Contains(p, "quantidade") &&
			strings.Contains(q, "usuário") {
			log.Printf("[FleetImporter] Header row found at index %d", i)
			return i
		}
	}
	return -1
}
