package pipeline

import (
	"testing"

	"routeboard/domain/delivery"
	"routeboard/internal/testkit"
)

func TestImportRouteExport_BuildsOneRecordPerLeg(t *testing.T) {
	rules := DefaultRules()

	rows := testkit.NewRouteSheet().
		Agent("Fulano de Tal").
		Vehicle("VAN PARI 01").
		Start("CD Pari").
		Service("SRV-001", "Pedido 1").
		Service("SRV-002", "Pedido 2").
		Agent("Beltrano Souza").
		Vehicle("VAN RJ 02").
		Service("SRV-100", "Pedido 100").
		Rows()

	records := rules.ImportRouteExport(rows)
	if len(records) != 2 {
		t.Fatalf("expected 2 leg records, got %d", len(records))
	}

	first := records[0]
	if first.Driver != "Fulano de Tal" {
		t.Errorf("driver = %q, want Fulano de Tal", first.Driver)
	}
	if first.TotalOrders != 2 || first.Pending != 2 || first.Delivered != 0 || first.Unsuccessful != 0 {
		t.Errorf("fresh leg counts = total %d delivered %d pending %d unsuccessful %d",
			first.TotalOrders, first.Delivered, first.Pending, first.Unsuccessful)
	}
	if first.Region != delivery.RegionSaoPaulo {
		t.Errorf("region = %q, want São Paulo", first.Region)
	}
	if len(first.ServiceCodes) != 2 || first.ServiceCodes[0] != "SRV-001" {
		t.Errorf("service codes = %v", first.ServiceCodes)
	}

	second := records[1]
	if second.Region != delivery.RegionRio {
		t.Errorf("second region = %q, want Rio De Janeiro", second.Region)
	}
	if first.ID == second.ID || first.ID == "" {
		t.Errorf("leg ids must be unique and non-empty: %q vs %q", first.ID, second.ID)
	}
}

func TestImportRouteExport_CodeFallsBackToTitle(t *testing.T) {
	rules := DefaultRules()

	rows := testkit.NewRouteSheet().
		Agent("Fulano de Tal").
		Service("", "Somente Título").
		Service("SRV-009", "Com Código").
		Rows()

	records := rules.ImportRouteExport(rows)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	codes := records[0].ServiceCodes
	if len(codes) != 2 || codes[0] != "Somente Título" || codes[1] != "SRV-009" {
		t.Errorf("service codes = %v, want title fallback then code", codes)
	}
}

func TestImportRouteExport_BrokerDriverUsesTitles(t *testing.T) {
	rules := DefaultRules()
	broker := rules.BrokerDrivers[0]

	rows := testkit.NewRouteSheet().
		Agent(broker).
		Service("SRV-001", "Pacote A").
		Service("SRV-002", "Pacote B").
		Rows()

	records := rules.ImportRouteExport(rows)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.TotalOrders != 2 {
		t.Errorf("totalOrders = %d, want 2 (title count)", rec.TotalOrders)
	}
	if rec.ServiceCodes[0] != "Pacote A" || rec.ServiceCodes[1] != "Pacote B" {
		t.Errorf("broker service codes = %v, want titles", rec.ServiceCodes)
	}
	if rec.Region != delivery.RegionDafiti {
		t.Errorf("broker region = %q, want Dafiti", rec.Region)
	}
}

func TestImportRouteExport_RoutesRepeatsDriverLegCount(t *testing.T) {
	rules := DefaultRules()

	rows := testkit.NewRouteSheet().
		Agent("Fulano de Tal").
		Service("SRV-001", "P1").
		Agent("Fulano de Tal").
		Service("SRV-002", "P2").
		Agent("Fulano de Tal").
		Service("SRV-003", "P3").
		Rows()

	records := rules.ImportRouteExport(rows)
	if len(records) != 3 {
		t.Fatalf("expected 3 leg records, got %d", len(records))
	}
	for i, rec := range records {
		if rec.Routes != 3 {
			t.Errorf("record %d routes = %d, want the driver's full leg count 3", i, rec.Routes)
		}
		if rec.TotalOrders != 1 {
			t.Errorf("record %d totalOrders = %d, want 1", i, rec.TotalOrders)
		}
	}
}

func TestImportRouteExport_ServiceRowsBeforeAnyAgentAreDropped(t *testing.T) {
	rules := DefaultRules()

	rows := testkit.NewRouteSheet().
		Service("SRV-000", "Órfão").
		Agent("Fulano de Tal").
		Service("SRV-001", "P1").
		Rows()

	records := rules.ImportRouteExport(rows)
	if len(records) != 1 || records[0].TotalOrders != 1 {
		t.Fatalf("orphan service rows must be ignored, got %+v", records)
	}
}

func TestImportRouteExport_IgnoredDriverFilteredExactly(t *testing.T) {
	rules := DefaultRules()
	rules.IgnoredRouteDrivers = []string{"fulano de tal"}

	rows := testkit.NewRouteSheet().
		Agent("Fulano de Tal").
		Service("SRV-001", "P1").
		Agent("Fulano de Tal Junior"). // substring, must survive exact match
		Service("SRV-002", "P2").
		Rows()

	records := rules.ImportRouteExport(rows)
	if len(records) != 1 || records[0].Driver != "Fulano de Tal Junior" {
		t.Fatalf("exact-match ignore filter failed: %+v", records)
	}
}

func TestImportRouteExport_EmptySheet(t *testing.T) {
	records := DefaultRules().ImportRouteExport(nil)
	if len(records) != 0 {
		t.Errorf("empty sheet must yield no records, got %d", len(records))
	}
}
