package pipeline

import (
	"log"
	"strconv"
	"strings"
	"time"

	"routeboard/adapters/excel"
	"routeboard/domain/delivery"
	"routeboard/internal"
)

// Status text markers for route-style outcomes. The negative phrase embeds
// the positive one, so the positive check must exclude it explicitly.
const (
	statusPositive = "sucesso"
	statusNegative = "sem sucesso"
)

// Fuzzy column candidates for status sheets. Exports vary between accented,
// unaccented and translated headers; lookups fall through in order.
var (
	statusCodeColumns   = []string{"Código", "Codigo", "Code"}
	statusTitleColumns  = []string{"H", "Título", "Titulo", "Title"}
	statusTextColumns   = []string{"Situação - Finalizado", "Situacao - Finalizado", "Status"}
	statusSenderColumns = []string{"F", "Remetente"}
	statusDateColumns   = []string{"Horários (execução) - Concluído", "Horarios (execucao) - Concluido", "Timestamp"}
	statusAgentColumns  = []string{"Agente", "Agent"}

	fleetLoadIDColumns    = []string{"A", "ID Carga", "Id Carga", "id carga"}
	fleetDeliveredColumns = []string{"AI", "Entregues", "entregues"}
	fleetReturnedColumns  = []string{"AJ", "Baixas", "baixas"}
)

const unspecified = "Não especificado"

// ReconcileStatus merges a status sheet into a previously built record set
// and returns the updated records; the input slice is not mutated. The sheet
// style is sniffed first: fleet-style sheets carry aggregate counts per load,
// route-style sheets carry one row per service code.
func (r Rules) ReconcileStatus(records []delivery.Record, statusRows []excel.Row) []delivery.Record {
	if isFleetStatusSheet(statusRows) {
		return r.reconcileFleetStatus(records, statusRows)
	}
	return r.reconcileRouteStatus(records, statusRows)
}

// isFleetStatusSheet reports whether the status sheet uses the
// fleet-management layout: either the raw letter columns A/AI/AJ are
// populated or a header name mentions the load/delivered/returned counts.
func isFleetStatusSheet(rows []excel.Row) bool {
	for _, row := range rows {
		if row.Has("A") || row.Has("AI") || row.Has("AJ") {
			return true
		}
		for key := range row {
			lower := strings.ToLower(key)
			if strings.Contains(lower, "carga") ||
				strings.Contains(lower, "entregues") ||
				strings.Contains(lower, "baixas") {
				return true
			}
		}
	}
	return false
}

type fleetStatus struct {
	delivered        int
	failedOrReturned int
}

// reconcileFleetStatus overwrites counts from per-load aggregates. Records
// whose id has no status row are left untouched.
func (r Rules) reconcileFleetStatus(records []delivery.Record, statusRows []excel.Row) []delivery.Record {
	log.Printf("[StatusReconciler] Fleet-style update (%d status rows)", len(statusRows))

	statusByLoad := make(map[string]fleetStatus, len(statusRows))
	for _, row := range statusRows {
		loadID := row.Get(fleetLoadIDColumns...)
		if loadID == "" {
			continue
		}
		delivered, _ := strconv.Atoi(row.Get(fleetDeliveredColumns...))
		returned, _ := strconv.Atoi(row.Get(fleetReturnedColumns...))
		statusByLoad[loadID] = fleetStatus{delivered: delivered, failedOrReturned: returned}
	}
	log.Printf("[StatusReconciler] Mapped %d fleet status entries", len(statusByLoad))

	updated := make([]delivery.Record, len(records))
	for i, rec := range records {
		status, ok := statusByLoad[rec.ID]
		if !ok {
			updated[i] = rec
			continue
		}

		rec.Delivered = status.delivered
		switch {
		case status.failedOrReturned == status.delivered:
			rec.Unsuccessful = 0
			rec.Pending = delivery.ClampNonNegative(rec.TotalOrders - status.failedOrReturned)
		case status.failedOrReturned > status.delivered:
			rec.Unsuccessful = status.failedOrReturned - status.delivered
			rec.Pending = delivery.ClampNonNegative(rec.TotalOrders - status.failedOrReturned)
		default:
			// Fewer returns than deliveries is anomalous; trust deliveries.
			rec.Unsuccessful = 0
			rec.Pending = delivery.ClampNonNegative(rec.TotalOrders - status.delivered)
		}

		rec.DeliveryPercentage = delivery.Percentage(rec.Delivered, rec.TotalOrders)
		rec.RoutePercentage = delivery.Percentage(rec.Delivered+rec.Unsuccessful, rec.TotalOrders)

		// The fleet schema carries no per-code detail.
		rec.SuccessfulCodes = []string{}
		rec.UnsuccessfulCodes = []string{}
		rec.SenderMap = map[string]string{}

		updated[i] = rec
	}
	return updated
}

// statusEntry is the winning status row for one service code.
type statusEntry struct {
	status    string
	timestamp time.Time
	sender    string
}

// reconcileRouteStatus classifies each record's service codes against a
// per-code status map built from the sheet. When multiple rows resolve to
// the same code, the row with the latest parsed timestamp wins; the strict
// comparison means ties keep the first-seen row.
func (r Rules) reconcileRouteStatus(records []delivery.Record, statusRows []excel.Row) []delivery.Record {
	log.Printf("[StatusReconciler] Route-style update (%d status rows)", len(statusRows))

	statusByCode := make(map[string]statusEntry, len(statusRows))
	for _, row := range statusRows {
		code := row.Get(statusCodeColumns...)
		title := row.Get(statusTitleColumns...)
		if code == "" {
			code = title
		}

		status := strings.ToLower(row.Get(statusTextColumns...))
		sender := row.Get(statusSenderColumns...)
		if sender == "" {
			sender = unspecified
		}
		agent := row.Get(statusAgentColumns...)
		if agent == "" {
			agent = unspecified
		}
		timestamp := ParseTimestamp(row.Get(statusDateColumns...))

		finalCode := code
		if r.IsBroker(agent) {
			finalCode = title
		}
		if finalCode == "" {
			continue
		}

		existing, seen := statusByCode[finalCode]
		if !seen || timestamp.After(existing.timestamp) {
			statusByCode[finalCode] = statusEntry{status: status, timestamp: timestamp, sender: sender}
		}
	}
	log.Printf("[StatusReconciler] Mapped %d service-code status entries", len(statusByCode))

	updated := make([]delivery.Record, len(records))
	for i, rec := range records {
		delivered := 0
		unsuccessful := 0
		successfulCodes := []string{}
		unsuccessfulCodes := []string{}
		senderMap := map[string]string{}

		for _, code := range rec.ServiceCodes {
			entry, ok := statusByCode[code]
			if !ok {
				// No status row for this code: it stays pending.
				continue
			}
			senderMap[code] = entry.sender

			if strings.Contains(entry.status, statusPositive) &&
				!strings.Contains(entry.status, statusNegative) {
				delivered++
				successfulCodes = append(successfulCodes, code)
				internal.DefaultLogger.Debug("code %s delivered (%q)", code, entry.status)
			} else if strings.Contains(entry.status, statusNegative) {
				unsuccessful++
				unsuccessfulCodes = append(unsuccessfulCodes, code)
				internal.DefaultLogger.Debug("code %s unsuccessful (%q)", code, entry.status)
			}
		}

		rec.Delivered = delivered
		rec.Unsuccessful = unsuccessful
		rec.Pending = delivery.ClampNonNegative(rec.TotalOrders - delivered - unsuccessful)
		rec.DeliveryPercentage = delivery.Percentage(delivered, rec.TotalOrders)
		rec.RoutePercentage = delivery.Percentage(rec.TotalOrders-rec.Pending, rec.TotalOrders)
		rec.SuccessfulCodes = successfulCodes
		rec.UnsuccessfulCodes = unsuccessfulCodes
		rec.SenderMap = senderMap

		updated[i] = rec
	}
	return updated
}
