package ui

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strings"

	"routeboard/adapters/excel"
	"routeboard/domain/delivery"
	"routeboard/internal/report"
)

// maxUploadSize caps spreadsheet uploads at 50MB.
const maxUploadSize = 50 * 1024 * 1024

// handleImport ingests a routes or fleet spreadsheet and merges the result
// into the stored record set.
func (a *App) handleImport(w http.ResponseWriter, r *http.Request) {
	rows, ok := a.readUpload(w, r, false)
	if !ok {
		return
	}

	incoming := a.rules.ImportRows(rows)
	if len(incoming) == 0 {
		writeError(w, http.StatusBadRequest, "no importable rows found in sheet")
		return
	}

	existing, err := a.store.LoadAll(r.Context())
	if err != nil {
		log.Printf("[UI] Failed to load records: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load records")
		return
	}

	merged := delivery.MergeBatch(existing, incoming)
	if err := a.store.SaveAll(r.Context(), merged); err != nil {
		log.Printf("[UI] Failed to save records: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save records")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"imported": len(incoming),
		"total":    len(merged),
	})
}

// handleStatus reconciles a status export against the stored record set.
func (a *App) handleStatus(w http.ResponseWriter, r *http.Request) {
	rows, ok := a.readUpload(w, r, true)
	if !ok {
		return
	}

	existing, err := a.store.LoadAll(r.Context())
	if err != nil {
		log.Printf("[UI] Failed to load records: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load records")
		return
	}
	if len(existing) == 0 {
		writeError(w, http.StatusConflict, "no records to reconcile; import a routes or fleet sheet first")
		return
	}

	updated := a.rules.ReconcileStatus(existing, rows)
	if err := a.store.SaveAll(r.Context(), updated); err != nil {
		log.Printf("[UI] Failed to save records: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save records")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"statusRows": len(rows),
		"total":      len(updated),
	})
}

// handleListRecords returns the stored record set, optionally filtered by
// region and re-sorted.
func (a *App) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := a.store.LoadAll(r.Context())
	if err != nil {
		log.Printf("[UI] Failed to load records: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load records")
		return
	}

	if region := r.URL.Query().Get("region"); region != "" {
		filtered := []delivery.Record{}
		for _, rec := range records {
			if strings.EqualFold(string(rec.Region), region) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	switch r.URL.Query().Get("sort") {
	case "", "asc":
		// Stored order is already ascending by delivery percentage; an
		// explicit request re-sorts in case a merge disturbed it.
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].DeliveryPercentage < records[j].DeliveryPercentage
		})
	case "desc":
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].DeliveryPercentage > records[j].DeliveryPercentage
		})
	case "alpha":
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].Driver) < strings.ToLower(records[j].Driver)
		})
	default:
		writeError(w, http.StatusBadRequest, "sort must be \"asc\", \"desc\" or \"alpha\"")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// handleClearRecords drops the stored record set.
func (a *App) handleClearRecords(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Clear(r.Context()); err != nil {
		log.Printf("[UI] Failed to clear records: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to clear records")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"cleared": true})
}

// handleSummary returns the per-region aggregates as JSON.
func (a *App) handleSummary(w http.ResponseWriter, r *http.Request) {
	records, err := a.store.LoadAll(r.Context())
	if err != nil {
		log.Printf("[UI] Failed to load records: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load records")
		return
	}
	writeJSON(w, http.StatusOK, report.Build(records))
}

// handleReport renders the summary digest as HTML.
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	records, err := a.store.LoadAll(r.Context())
	if err != nil {
		log.Printf("[UI] Failed to load records: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load records")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(report.Build(records).HTML())
}

// readUpload pulls the "file" part out of a multipart upload and decodes it
// into rows. Status sheets decode with header-name keys, import sheets with
// column-letter keys.
func (a *App) readUpload(w http.ResponseWriter, r *http.Request, named bool) ([]excel.Row, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return nil, false
	}
	defer file.Close()

	name := strings.ToLower(header.Filename)
	if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xls") && !strings.HasSuffix(name, ".csv") {
		writeError(w, http.StatusBadRequest, "only .xlsx, .xls and .csv files are supported")
		return nil, false
	}

	var rows []excel.Row
	if named {
		rows, err = excel.ReadNamedRowsFrom(file, header.Filename)
	} else {
		rows, err = excel.ReadRowsFrom(file, header.Filename)
	}
	if err != nil {
		log.Printf("[UI] Failed to decode %s: %v", header.Filename, err)
		writeError(w, http.StatusBadRequest, "failed to decode spreadsheet")
		return nil, false
	}

	return rows, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[UI] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
