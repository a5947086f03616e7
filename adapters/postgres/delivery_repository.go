package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"routeboard/domain/delivery"
	"routeboard/ports"
)

// deliveryRepository implements ports.RecordStore on Postgres. The record
// set is a best-effort cache: each save replaces the whole set, and corrupt
// rows load as an empty set instead of failing the caller.
type deliveryRepository struct {
	db *sqlx.DB
}

// NewDeliveryRepository creates a new delivery record store
func NewDeliveryRepository(db *sqlx.DB) ports.RecordStore {
	return &deliveryRepository{db: db}
}

// Schema creates the deliveries table if it does not exist.
const Schema = `
CREATE TABLE IF NOT EXISTS deliveries (
	id                  TEXT PRIMARY KEY,
	position            INT NOT NULL,
	driver              TEXT NOT NULL,
	region              TEXT NOT NULL,
	total_orders        INT NOT NULL DEFAULT 0,
	routes              INT NOT NULL DEFAULT 0,
	delivered           INT NOT NULL DEFAULT 0,
	pending             INT NOT NULL DEFAULT 0,
	unsuccessful        INT NOT NULL DEFAULT 0,
	delivery_percentage INT NOT NULL DEFAULT 0,
	route_percentage    INT NOT NULL DEFAULT 0,
	codes               JSONB NOT NULL DEFAULT '{}'
)`

// codesPayload bundles the per-code detail into one JSONB column; the flat
// counters stay queryable as plain columns.
type codesPayload struct {
	ServiceCodes      []string          `json:"serviceCodes"`
	SuccessfulCodes   []string          `json:"successfulCodes"`
	UnsuccessfulCodes []string          `json:"unsuccessfulCodes"`
	SenderMap         map[string]string `json:"senderMap"`
}

// SaveAll replaces the persisted record set inside one transaction.
func (r *deliveryRepository) SaveAll(ctx context.Context, records []delivery.Record) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM deliveries`); err != nil {
		return fmt.Errorf("failed to clear deliveries: %w", err)
	}

	query := `INSERT INTO deliveries (
		id, position, driver, region, total_orders, routes, delivered, pending,
		unsuccessful, delivery_percentage, route_percentage, codes
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	for i, rec := range records {
		codesJSON, err := json.Marshal(codesPayload{
			ServiceCodes:      rec.ServiceCodes,
			SuccessfulCodes:   rec.SuccessfulCodes,
			UnsuccessfulCodes: rec.UnsuccessfulCodes,
			SenderMap:         rec.SenderMap,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal codes for %s: %w", rec.ID, err)
		}

		if _, err := tx.ExecContext(ctx, query,
			rec.ID, i, rec.Driver, string(rec.Region), rec.TotalOrders, rec.Routes,
			rec.Delivered, rec.Pending, rec.Unsuccessful,
			rec.DeliveryPercentage, rec.RoutePercentage, codesJSON,
		); err != nil {
			return fmt.Errorf("failed to insert delivery %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deliveries: %w", err)
	}

	log.Printf("[DeliveryRepository] Saved %d records", len(records))
	return nil
}

// LoadAll returns the persisted record set in its saved order. Rows that
// fail to decode are skipped with a log line; they never abort the load.
func (r *deliveryRepository) LoadAll(ctx context.Context) ([]delivery.Record, error) {
	query := `SELECT id, driver, region, total_orders, routes, delivered, pending,
		unsuccessful, delivery_percentage, route_percentage, codes
	FROM deliveries ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query deliveries: %w", err)
	}
	defer rows.Close()

	records := []delivery.Record{}
	for rows.Next() {
		var rec delivery.Record
		var region string
		var codesJSON []byte

		if err := rows.Scan(
			&rec.ID, &rec.Driver, &region, &rec.TotalOrders, &rec.Routes,
			&rec.Delivered, &rec.Pending, &rec.Unsuccessful,
			&rec.DeliveryPercentage, &rec.RoutePercentage, &codesJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan delivery row: %w", err)
		}
		rec.Region = delivery.Region(region)

		var codes codesPayload
		if err := json.Unmarshal(codesJSON, &codes); err != nil {
			log.Printf("[DeliveryRepository] Skipping record %s with corrupt codes payload: %v", rec.ID, err)
			continue
		}
		rec.ServiceCodes = orEmpty(codes.ServiceCodes)
		rec.SuccessfulCodes = orEmpty(codes.SuccessfulCodes)
		rec.UnsuccessfulCodes = orEmpty(codes.UnsuccessfulCodes)
		rec.SenderMap = codes.SenderMap
		if rec.SenderMap == nil {
			rec.SenderMap = map[string]string{}
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deliveries: %w", err)
	}

	return records, nil
}

// Clear removes every persisted record.
func (r *deliveryRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM deliveries`); err != nil {
		return fmt.Errorf("failed to clear deliveries: %w", err)
	}
	log.Printf("[DeliveryRepository] Cleared record set")
	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
