package pipeline

import (
	"log"

	"routeboard/adapters/excel"
	"routeboard/domain/delivery"
)

// ImportRows is the combined detector + importer entry point: it sniffs
// which of the two source schemas the sheet uses and dispatches to the
// matching importer. Malformed input degrades to an empty or partial result;
// this never fails.
func (r Rules) ImportRows(rows []excel.Row) []delivery.Record {
	log.Printf("[Importer] Starting import of %d rows", len(rows))

	if LooksLikeFleetManagement(rows) {
		return r.ImportFleetManagement(rows)
	}
	return r.ImportRouteExport(rows)
}
