// Package testkit builds synthetic spreadsheet rows for tests: route-planner
// exports, fleet-management exports and status sheets in both layouts. The
// builders produce the same shapes the excel adapter emits so pipeline tests
// never need fixture files.
package testkit

import "routeboard/adapters/excel"

// RouteSheet assembles a letter-keyed route-planner export.
type RouteSheet struct {
	rows []excel.Row
}

// NewRouteSheet starts an empty route export with a junk banner row, the way
// the real export begins.
func NewRouteSheet() *RouteSheet {
	return &RouteSheet{rows: []excel.Row{{"A": "Relatório de rotas"}}}
}

// Agent opens a new driver block.
func (s *RouteSheet) Agent(driver string) *RouteSheet {
	s.rows = append(s.rows, excel.Row{"A": "Agente:", "B": driver})
	return s
}

// Vehicle attaches a vehicle label to the current block.
func (s *RouteSheet) Vehicle(label string) *RouteSheet {
	s.rows = append(s.rows, excel.Row{"A": "Veículo:", "B": label})
	return s
}

// Start attaches an origin location to the current block.
func (s *RouteSheet) Start(location string) *RouteSheet {
	s.rows = append(s.rows, excel.Row{"A": "Início:", "B": location})
	return s
}

// Service appends a service-code/title row.
func (s *RouteSheet) Service(code, title string) *RouteSheet {
	row := excel.Row{"A": "1"}
	if code != "" {
		row["G"] = code
	}
	if title != "" {
		row["H"] = title
	}
	s.rows = append(s.rows, row)
	return s
}

// Rows returns the assembled sheet.
func (s *RouteSheet) Rows() []excel.Row {
	return s.rows
}

// FleetHeaderRow is a recognizable fleet-management header row.
func FleetHeaderRow() excel.Row {
	return excel.Row{
		"A": "ID Carga",
		"F": "Motorista",
		"K": "Filial",
		"P": "Quantidade Volumes",
		"Q": "Usuário Carregamento",
	}
}

// FleetLoadRow is one fleet-management data row.
func FleetLoadRow(loadID, driver, branch, quantity, loadingUser string) excel.Row {
	row := excel.Row{}
	if loadID != "" {
		row["A"] = loadID
	}
	if driver != "" {
		row["F"] = driver
	}
	if branch != "" {
		row["K"] = branch
	}
	if quantity != "" {
		row["P"] = quantity
	}
	if loadingUser != "" {
		row["Q"] = loadingUser
	}
	return row
}

// FleetSheet assembles a fleet export with the header at the given offset
// (junk rows above it, like the real TMS export).
func FleetSheet(headerOffset int, loads ...excel.Row) []excel.Row {
	rows := make([]excel.Row, 0, headerOffset+1+len(loads))
	for i := 0; i < headerOffset; i++ {
		rows = append(rows, excel.Row{"A": "Transportadora XYZ"})
	}
	rows = append(rows, FleetHeaderRow())
	rows = append(rows, loads...)
	return rows
}

// RouteStatusRow is one header-keyed route-style status row.
func RouteStatusRow(code, title, status, sender, completedAt, agent string) excel.Row {
	row := excel.Row{}
	if code != "" {
		row["Código"] = code
	}
	if title != "" {
		row["Título"] = title
	}
	if status != "" {
		row["Situação - Finalizado"] = status
	}
	if sender != "" {
		row["Remetente"] = sender
	}
	if completedAt != "" {
		row["Horários (execução) - Concluído"] = completedAt
	}
	if agent != "" {
		row["Agente"] = agent
	}
	return row
}

// FleetStatusRow is one header-keyed fleet-style status row.
func FleetStatusRow(loadID, delivered, returned string) excel.Row {
	row := excel.Row{}
	if loadID != "" {
		row["ID Carga"] = loadID
	}
	if delivered != "" {
		row["Entregues"] = delivered
	}
	if returned != "" {
		row["Baixas"] = returned
	}
	return row
}
