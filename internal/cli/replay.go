package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/me/cpusim/internal/render"
	"github.com/me/cpusim/internal/replay"
	"github.com/me/cpusim/internal/runner"
)

func newReplayCmd() *cobra.Command {
	var (
		o          overrides
		interval   time.Duration
		showMemory bool
	)
	cmd := &cobra.Command{
		Use:   "replay <scenario>",
		Short: "Replay a scenario tick by tick",
		Long: "Simulate a scenario locally and print one line per tick at a fixed\n" +
			"cadence, with a progress bar on stderr. Ctrl-C stops the replay.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(cmd, args[0], &o)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("interval") {
				interval = defaults.ReplayInterval
			}

			ctx := commandContext(cmd)
			run, err := newRunner().Execute(ctx, sc)
			if err != nil {
				return fmt.Errorf("simulate: %w", err)
			}
			frames, _, err := runner.Frames(run.Scenario, run.Trace)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r := render.New(out)
			bar := progressbar.NewOptions(len(frames),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription(fmt.Sprintf("%s %s", sc.Name, run.Report.Policy)),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "█",
					SaucerPadding: "░",
					BarStart:      "|",
					BarEnd:        "|",
				}),
				progressbar.OptionClearOnFinish(),
			)

			played := 0
			player := replay.Player{Interval: interval, Logger: logger}
			err = player.Play(ctx, frames, func(f replay.Frame) error {
				played++
				fmt.Fprint(out, r.Tick(f))
				if showMemory && f.NewFaults > 0 {
					fmt.Fprint(out, r.Memory(f.Memory, f.Faults))
				}
				return bar.Add(1)
			})
			if err != nil {
				return fmt.Errorf("replay stopped at %d/%d ticks: %w", played, len(frames), err)
			}
			bar.Finish()

			fmt.Fprintln(out)
			fmt.Fprintln(out, r.Gantt(run.Trace, run.Scenario.Processes))
			fmt.Fprint(out, r.Report(run.Report))
			return nil
		},
	}
	o.bind(cmd)
	cmd.Flags().DurationVar(&interval, "interval", 0, "Delay between ticks (default from config, 0 for none)")
	cmd.Flags().BoolVar(&showMemory, "memory", false, "Print the frame table whenever a tick faults")
	return cmd
}
