package pipeline

import (
	"log"
	"strings"

	"routeboard/adapters/excel"
)

// detectScanWindow bounds how many leading rows the schema sniff inspects.
const detectScanWindow = 5

// LooksLikeFleetManagement decides whether a freshly decoded sheet uses the
// fleet-management schema rather than the route-planner export. It scans at
// most the first five rows and checks every cell for three marker phrases;
// two out of three anywhere in the window means fleet-management. This is a
// heuristic over machine-generated headers, not a strict schema check.
func LooksLikeFleetManagement(rows []excel.Row) bool {
	if len(rows) == 0 {
		return false
	}

	window := rows
	if len(window) > detectScanWindow {
		window = window[:detectScanWindow]
	}

	var hasDriver, hasUnitQuantity, hasLoadingUser bool
	for _, row := range window {
		for _, value := range row {
			lower := strings.ToLower(value)
			if strings.Contains(lower, "motorista") {
				hasDriver = true
			}
			if strings.Contains(lower, "quantidade") && strings.Contains(lower, "volumes") {
				hasUnitQuantity = true
			}
			if strings.Contains(lower, "usuário") && strings.Contains(lower, "carregamento") {
				hasLoadingUser = true
			}
		}
	}

	log.Printf("[SchemaDetector] markers driver=%v quantity=%v loadingUser=%v",
		hasDriver, hasUnitQuantity, hasLoadingUser)

	return (hasDriver && hasUnitQuantity) ||
		(hasDriver && hasLoadingUser) ||
		(hasUnitQuantity && hasLoadingUser)
}
