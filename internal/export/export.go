// Package export writes finished runs to Excel workbooks.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/me/cpusim/pkg/model"
)

// Sheet names.
const (
	SheetGantt     = "Gantt"
	SheetProcesses = "Processes"
	SheetMemory    = "Memory"
)

var cellLetters = map[model.CellState]string{
	model.CellRunning:  "R",
	model.CellWaiting:  "W",
	model.CellOverhead: "O",
	model.CellLate:     "L",
}

var cellFills = map[model.CellState]string{
	model.CellRunning:  "00CC66",
	model.CellWaiting:  "E5C07B",
	model.CellOverhead: "FF0000",
	model.CellLate:     "57534E",
}

// Workbook builds a workbook for run. The caller must Close it.
func Workbook(run *model.Run) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetGantt); err != nil {
		f.Close()
		return nil, err
	}
	for _, step := range []func(*excelize.File, *model.Run) error{writeGantt, writeProcesses, writeMemory} {
		if err := step(f, run); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook writes run as an xlsx document to w.
func WriteWorkbook(run *model.Run, w io.Writer) error {
	f, err := Workbook(run)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeGantt(f *excelize.File, run *model.Run) error {
	ids := make([]model.ProcessID, 0, len(run.Scenario.Processes))
	for _, p := range run.Scenario.Processes {
		ids = append(ids, p.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	header := make([]any, 0, run.Trace.Length()+1)
	header = append(header, "Process")
	for t := 0; t < run.Trace.Length(); t++ {
		header = append(header, t)
	}
	if err := f.SetSheetRow(SheetGantt, "A1", &header); err != nil {
		return err
	}

	styles := make(map[model.CellState]int, len(cellFills))
	for state, color := range cellFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return err
		}
		styles[state] = id
	}

	for row, id := range ids {
		label, _ := excelize.CoordinatesToCellName(1, row+2)
		if err := f.SetCellValue(SheetGantt, label, fmt.Sprintf("P%d", id)); err != nil {
			return err
		}
		for t, e := range run.Trace.Entries {
			state := e.Cell(id)
			letter, ok := cellLetters[state]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(t+2, row+2)
			if err := f.SetCellValue(SheetGantt, cell, letter); err != nil {
				return err
			}
			if err := f.SetCellStyle(SheetGantt, cell, cell, styles[state]); err != nil {
				return err
			}
		}
	}
	if run.Trace.Length() > 0 {
		last, _ := excelize.ColumnNumberToName(run.Trace.Length() + 1)
		if err := f.SetColWidth(SheetGantt, "B", last, 3); err != nil {
			return err
		}
	}
	return nil
}

func writeProcesses(f *excelize.File, run *model.Run) error {
	if _, err := f.NewSheet(SheetProcesses); err != nil {
		return err
	}
	header := []any{"ID", "Arrival", "Service", "First run", "Completion", "Turnaround", "Waiting", "Response", "Missed deadline"}
	if err := f.SetSheetRow(SheetProcesses, "A1", &header); err != nil {
		return err
	}
	for i, o := range run.Trace.Outcomes {
		row := []any{int(o.ID), o.Arrival, o.Service, o.FirstRun, o.Completion, o.Turnaround, o.Waiting, o.Response, o.MissedDeadline}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetProcesses, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeMemory(f *excelize.File, run *model.Run) error {
	if _, err := f.NewSheet(SheetMemory); err != nil {
		return err
	}
	summary := [][]any{
		{"Policy", string(run.Memory.Policy)},
		{"Capacity", run.Memory.Capacity},
		{"Faults", run.Memory.Faults},
		{},
		{"Frame", "Process", "Page", "Last access"},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetMemory, cell, &row); err != nil {
			return err
		}
	}
	for i, page := range run.Memory.Frames {
		row := []any{i}
		if !page.Free() {
			row = append(row, int(page.Process), page.Index, page.LastAccess)
		}
		cell, _ := excelize.CoordinatesToCellName(1, len(summary)+i+1)
		if err := f.SetSheetRow(SheetMemory, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
