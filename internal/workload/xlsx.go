package workload

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/me/cpusim/internal/config"
	"github.com/me/cpusim/pkg/model"
)

// ParseXLSX reads the process table from the first sheet of a workbook. The
// header row names the columns id, arrival, service, pages and optionally
// deadline, in any order. Blank rows are skipped; an empty deadline cell means
// the process has none.
func ParseXLSX(r io.Reader, defaults config.SimulationConfig) (model.Scenario, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer xl.Close()

	sheet := xl.GetSheetName(0)
	if sheet == "" {
		return model.Scenario{}, fmt.Errorf("no sheets found in xlsx file")
	}
	rows, err := xl.Rows(sheet)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("read rows: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return model.Scenario{}, fmt.Errorf("xlsx sheet %q is empty", sheet)
	}
	header, err := rows.Columns()
	if err != nil {
		return model.Scenario{}, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"id", "arrival", "service", "pages"} {
		if _, ok := col[required]; !ok {
			return model.Scenario{}, fmt.Errorf("column %q not found in header %v", required, header)
		}
	}

	var sc model.Scenario
	rowNum := 1
	for rows.Next() {
		rowNum++
		cells, err := rows.Columns()
		if err != nil {
			return model.Scenario{}, fmt.Errorf("row %d: %w", rowNum, err)
		}
		if blank(cells) {
			continue
		}
		cell := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[i])
		}

		var p model.Process
		var id int
		for _, f := range []struct {
			name string
			dst  *int
		}{
			{"id", &id},
			{"arrival", &p.Arrival},
			{"service", &p.Service},
			{"pages", &p.Pages},
		} {
			v, err := strconv.Atoi(cell(f.name))
			if err != nil {
				return model.Scenario{}, fmt.Errorf("row %d column %s: %w", rowNum, f.name, err)
			}
			*f.dst = v
		}
		p.ID = model.ProcessID(id)
		if s := cell("deadline"); s != "" {
			d, err := strconv.Atoi(s)
			if err != nil {
				return model.Scenario{}, fmt.Errorf("row %d column deadline: %w", rowNum, err)
			}
			p.Deadline = &d
		}
		sc.Processes = append(sc.Processes, p)
	}

	ApplyDefaults(&sc, defaults)
	return sc, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
