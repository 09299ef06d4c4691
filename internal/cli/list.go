package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/cpusim/pkg/model"
)

func newListCmd() *cobra.Command {
	var (
		policy string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List simulations stored on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireServer(); err != nil {
				return err
			}
			path := fmt.Sprintf("/api/v1/simulations?limit=%d", limit)
			if policy != "" {
				path += "&policy=" + policy
			}
			resp, err := client.Get(path)
			if err != nil {
				return fmt.Errorf("list simulations: %w", err)
			}

			var data []model.RunSummary
			if err := resp.decode(&data); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(data) == 0 {
				fmt.Fprintln(out, "No simulations found.")
				return nil
			}

			fmt.Fprintf(out, "%-40s  %-6s  %-20s  %5s  %8s  %6s  %s\n", "ID", "POLICY", "NAME", "PROCS", "AVG TAT", "FAULTS", "CREATED")
			fmt.Fprintf(out, "%-40s  %-6s  %-20s  %5s  %8s  %6s  %s\n", "--", "------", "----", "-----", "-------", "------", "-------")
			for _, s := range data {
				fmt.Fprintf(out, "%-40s  %-6s  %-20s  %5d  %8.2f  %6d  %s\n",
					s.ID, s.Policy, s.Name, s.Processes, s.AvgTurnaround, s.PageFaults, s.CreatedAt.Format("2006-01-02 15:04:05"))
			}

			if resp.Pagination != nil && resp.Pagination.HasMore {
				fmt.Fprintf(out, "\n(%d of %d shown)\n", len(data), resp.Pagination.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&policy, "policy", "", "Only show runs of this policy")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to show")
	return cmd
}
