package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/me/cpusim/internal/export"
	"github.com/me/cpusim/internal/render"
	"github.com/me/cpusim/pkg/model"
)

func newSimulateCmd() *cobra.Command {
	var (
		o          overrides
		format     string
		exportPath string
	)
	cmd := &cobra.Command{
		Use:   "simulate <scenario>",
		Short: "Run a scenario and print the trace and metrics",
		Long: "Run a scenario (.yaml, .yml, .json or .xlsx) locally, or on the server\n" +
			"given by --server, and print the Gantt chart, per-process outcomes,\n" +
			"aggregate metrics and final frame table.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q (want text or json)", format)
			}
			sc, err := loadScenario(cmd, args[0], &o)
			if err != nil {
				return err
			}

			var run *model.Run
			if client != nil {
				run, err = simulateRemote(sc)
			} else {
				run, err = newRunner().Execute(commandContext(cmd), sc)
			}
			if err != nil {
				return fmt.Errorf("simulate: %w", err)
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(run); err != nil {
					return err
				}
			} else {
				printRun(out, run)
			}

			if exportPath != "" {
				if err := writeWorkbook(run, exportPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Workbook written: %s\n", exportPath)
			}
			return nil
		},
	}
	o.bind(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json)")
	cmd.Flags().StringVar(&exportPath, "export", "", "Also write the run to an .xlsx workbook")
	return cmd
}

func simulateRemote(sc model.Scenario) (*model.Run, error) {
	resp, err := client.Post("/api/v1/simulations", sc)
	if err != nil {
		return nil, err
	}
	var sum model.RunSummary
	if err := resp.decode(&sum); err != nil {
		return nil, err
	}
	return fetchRun(sum.ID)
}

func fetchRun(id string) (*model.Run, error) {
	resp, err := client.Get("/api/v1/simulations/" + id)
	if err != nil {
		return nil, err
	}
	var run model.Run
	if err := resp.decode(&run); err != nil {
		return nil, err
	}
	return &run, nil
}

func printRun(w io.Writer, run *model.Run) {
	r := render.New(w)
	if run.Scenario.Name != "" {
		fmt.Fprintf(w, "%s (%s)\n\n", run.Scenario.Name, run.ID)
	}
	fmt.Fprintln(w, r.Gantt(run.Trace, run.Scenario.Processes))
	fmt.Fprintln(w, r.Outcomes(run.Trace))
	fmt.Fprintln(w, r.Report(run.Report))
	fmt.Fprint(w, r.Memory(run.Memory.Frames, run.Memory.Faults))
}

func writeWorkbook(run *model.Run, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := export.WriteWorkbook(run, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
