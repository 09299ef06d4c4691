package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/cpusim/internal/render"
	"github.com/me/cpusim/pkg/model"
)

func newCompareCmd() *cobra.Command {
	var (
		o        overrides
		policies []string
		format   string
	)
	cmd := &cobra.Command{
		Use:   "compare <scenario>",
		Short: "Run a scenario under several policies side by side",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(cmd, args[0], &o)
			if err != nil {
				return err
			}
			names := make([]model.PolicyName, 0, len(policies))
			for _, p := range policies {
				name, err := model.NormalizePolicyName(p)
				if err != nil {
					return err
				}
				names = append(names, name)
			}

			var results []model.Comparison
			if client != nil {
				body := struct {
					model.Scenario
					Policies []model.PolicyName `json:"policies"`
				}{sc, names}
				resp, err := client.Post("/api/v1/simulations/compare", body)
				if err != nil {
					return fmt.Errorf("compare: %w", err)
				}
				if err := resp.decode(&results); err != nil {
					return err
				}
			} else {
				results, err = newRunner().Compare(commandContext(cmd), sc, names)
				if err != nil {
					return fmt.Errorf("compare: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			fmt.Fprint(out, render.New(out).Compare(results))
			return nil
		},
	}
	o.bind(cmd)
	cmd.Flags().StringSliceVar(&policies, "policies", []string{"fifo", "sjf", "rr", "edf"}, "Policies to compare")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json)")
	return cmd
}
