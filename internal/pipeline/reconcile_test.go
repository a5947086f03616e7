package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routeboard/adapters/excel"
	"routeboard/domain/delivery"
	"routeboard/internal/testkit"
)

func fleetRecord(id string, total int) delivery.Record {
	return delivery.Record{
		ID:                id,
		Driver:            "Ciclano Silva",
		Region:            delivery.RegionSaoPaulo,
		TotalOrders:       total,
		Routes:            1,
		Pending:           total,
		ServiceCodes:      []string{},
		SuccessfulCodes:   []string{},
		UnsuccessfulCodes: []string{},
		SenderMap:         map[string]string{},
	}
}

func routeRecord(id string, codes ...string) delivery.Record {
	return delivery.Record{
		ID:                id,
		Driver:            "Fulano de Tal",
		Region:            delivery.RegionSaoPaulo,
		TotalOrders:       len(codes),
		Routes:            1,
		Pending:           len(codes),
		ServiceCodes:      codes,
		SuccessfulCodes:   []string{},
		UnsuccessfulCodes: []string{},
		SenderMap:         map[string]string{},
	}
}

func TestReconcileStatus_FleetCountFormulas(t *testing.T) {
	rules := DefaultRules()

	cases := []struct {
		name             string
		delivered        string
		returned         string
		wantDelivered    int
		wantUnsuccessful int
		wantPending      int
	}{
		{"returns equal deliveries", "50", "50", 50, 0, 0},
		{"more returns than deliveries", "40", "45", 40, 5, 5},
		{"anomalous fewer returns", "45", "40", 45, 0, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			records := []delivery.Record{fleetRecord("CARGA-01", 50)}
			status := []excel.Row{testkit.FleetStatusRow("CARGA-01", tc.delivered, tc.returned)}

			updated := rules.ReconcileStatus(records, status)
			require.Len(t, updated, 1)

			rec := updated[0]
			assert.Equal(t, tc.wantDelivered, rec.Delivered)
			assert.Equal(t, tc.wantUnsuccessful, rec.Unsuccessful)
			assert.Equal(t, tc.wantPending, rec.Pending)
			assert.Equal(t, rec.TotalOrders, rec.Delivered+rec.Unsuccessful+rec.Pending,
				"count invariant must hold after reconciliation")
			assert.Equal(t, delivery.Percentage(rec.Delivered, rec.TotalOrders), rec.DeliveryPercentage)
			assert.Empty(t, rec.SuccessfulCodes)
			assert.Empty(t, rec.UnsuccessfulCodes)
			assert.Empty(t, rec.SenderMap)
		})
	}
}

func TestReconcileStatus_FleetUnknownLoadLeftUnchanged(t *testing.T) {
	rules := DefaultRules()
	records := []delivery.Record{fleetRecord("CARGA-01", 10)}
	status := []excel.Row{testkit.FleetStatusRow("CARGA-99", "5", "5")}

	updated := rules.ReconcileStatus(records, status)
	require.Len(t, updated, 1)
	assert.Equal(t, records[0], updated[0])
}

func TestReconcileStatus_RouteClassifiesByStatusText(t *testing.T) {
	rules := DefaultRules()
	records := []delivery.Record{routeRecord("leg-1", "SRV-001", "SRV-002", "SRV-003")}
	status := []excel.Row{
		testkit.RouteStatusRow("SRV-001", "P1", "Finalizado com sucesso", "Loja A", "15/03/2024 10:00", "Fulano de Tal"),
		testkit.RouteStatusRow("SRV-002", "P2", "Sem sucesso na entrega", "Loja B", "15/03/2024 11:00", "Fulano de Tal"),
		// SRV-003 has no status row and must stay pending.
	}

	updated := rules.ReconcileStatus(records, status)
	require.Len(t, updated, 1)

	rec := updated[0]
	assert.Equal(t, 1, rec.Delivered)
	assert.Equal(t, 1, rec.Unsuccessful)
	assert.Equal(t, 1, rec.Pending)
	assert.Equal(t, []string{"SRV-001"}, rec.SuccessfulCodes)
	assert.Equal(t, []string{"SRV-002"}, rec.UnsuccessfulCodes)
	assert.Equal(t, "Loja A", rec.SenderMap["SRV-001"])
	assert.Equal(t, "Loja B", rec.SenderMap["SRV-002"])
	assert.NotContains(t, rec.SenderMap, "SRV-003")
	assert.Equal(t, 33, rec.DeliveryPercentage)
	assert.Equal(t, 67, rec.RoutePercentage)
}

// "sem sucesso" contains "sucesso" as a substring; a naive positive check
// would count a failed delivery as successful.
func TestReconcileStatus_NegativeMarkerBeatsEmbeddedPositive(t *testing.T) {
	rules := DefaultRules()
	records := []delivery.Record{routeRecord("leg-1", "SRV-001")}
	status := []excel.Row{
		testkit.RouteStatusRow("SRV-001", "P1", "sem sucesso", "Loja A", "15/03/2024 10:00", ""),
	}

	updated := rules.ReconcileStatus(records, status)
	require.Len(t, updated, 1)

	rec := updated[0]
	assert.Equal(t, 0, rec.Delivered)
	assert.Equal(t, 1, rec.Unsuccessful)
	assert.Equal(t, []string{"SRV-001"}, rec.UnsuccessfulCodes)
}

func TestReconcileStatus_LatestTimestampWins(t *testing.T) {
	rules := DefaultRules()
	records := []delivery.Record{routeRecord("leg-1", "SRV-001")}
	status := []excel.Row{
		testkit.RouteStatusRow("SRV-001", "P1", "sem sucesso", "Loja A", "15/03/2024 09:00", ""),
		testkit.RouteStatusRow("SRV-001", "P1", "Entrega com sucesso", "Loja A", "15/03/2024 17:45", ""),
		testkit.RouteStatusRow("SRV-001", "P1", "sem sucesso", "Loja A", "15/03/2024 12:00", ""),
	}

	updated := rules.ReconcileStatus(records, status)
	require.Len(t, updated, 1)
	assert.Equal(t, 1, updated[0].Delivered, "the 17:45 row must win")
	assert.Equal(t, 0, updated[0].Unsuccessful)
}

func TestReconcileStatus_UnparseableDateLosesToRealDate(t *testing.T) {
	rules := DefaultRules()
	records := []delivery.Record{routeRecord("leg-1", "SRV-001")}
	status := []excel.Row{
		testkit.RouteStatusRow("SRV-001", "P1", "Entrega com sucesso", "Loja A", "01/01/2020 00:01", ""),
		testkit.RouteStatusRow("SRV-001", "P1", "sem sucesso", "Loja A", "data inválida", ""),
	}

	updated := rules.ReconcileStatus(records, status)
	require.Len(t, updated, 1)
	assert.Equal(t, 1, updated[0].Delivered, "epoch sentinel must lose to any real timestamp")
}

func TestReconcileStatus_BrokerAgentKeysByTitle(t *testing.T) {
	rules := DefaultRules()
	broker := rules.BrokerDrivers[0]

	// Broker legs carry titles as service codes; the status row's code column
	// holds something else entirely.
	records := []delivery.Record{routeRecord("leg-1", "Pacote A")}
	status := []excel.Row{
		testkit.RouteStatusRow("SRV-777", "Pacote A", "Entrega com sucesso", "Dafiti", "15/03/2024 10:00", broker),
	}

	updated := rules.ReconcileStatus(records, status)
	require.Len(t, updated, 1)
	assert.Equal(t, 1, updated[0].Delivered)
	assert.Equal(t, []string{"Pacote A"}, updated[0].SuccessfulCodes)
}

func TestReconcileStatus_SniffsFleetSheetFromHeaderFragments(t *testing.T) {
	rules := DefaultRules()
	records := []delivery.Record{fleetRecord("CARGA-01", 20)}

	// Named fleet columns only, no letter keys at all.
	status := []excel.Row{{"ID Carga": "CARGA-01", "Entregues": "20", "Baixas": "20"}}

	updated := rules.ReconcileStatus(records, status)
	require.Len(t, updated, 1)
	assert.Equal(t, 20, updated[0].Delivered)
	assert.Equal(t, 0, updated[0].Pending)
}
