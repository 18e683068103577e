package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kidsfocus/internal/core/timekeeper"
	"kidsfocus/internal/transport/wsfeed"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		serveAddr    string
		preset       string
		workMinutes  int
		breakMinutes int
		once         bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a focus session without the desktop shell",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := opts.openApp(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				_ = application.Close()
			}()
			keeper := application.Keeper

			if preset != "" {
				if err := keeper.SetPreset(preset); err != nil {
					return err
				}
			}
			if workMinutes > 0 || breakMinutes > 0 {
				snapshot := keeper.Snapshot()
				if workMinutes <= 0 {
					workMinutes = snapshot.WorkMinutes
				}
				if breakMinutes <= 0 {
					breakMinutes = snapshot.BreakMinutes
				}
				if err := keeper.SetDurations(workMinutes, breakMinutes); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			out := cmd.OutOrStdout()
			var outMu sync.Mutex
			application.Bus.Subscribe("console", func(event timekeeper.Event) error {
				if event.Type == timekeeper.EventTimerTick {
					return nil
				}
				outMu.Lock()
				defer outMu.Unlock()
				_, err := fmt.Fprintf(out, "%s %-17s %s\n", event.At.Local().Format(time.TimeOnly), event.Type, timekeeper.FormatClock(event.Remaining))
				if once && (event.Type == timekeeper.EventBreakComplete || event.Type == timekeeper.EventBreakSkipped) {
					cancel()
				}
				return err
			})

			var serveErr chan error
			if serveAddr != "" {
				feed := wsfeed.New(serveAddr, keeper, application.Bus, application.Logger)
				serveErr = make(chan error, 1)
				go func() { serveErr <- feed.Run(ctx) }()
			}

			if err := keeper.StartWork(); err != nil {
				return err
			}

			select {
			case <-ctx.Done():
			case err := <-serveErr:
				if err != nil {
					return err
				}
			}
			keeper.Stop()
			return nil
		},
	}
	cmd.Flags().StringVar(&serveAddr, "serve", "", "serve the websocket event feed on this address")
	cmd.Flags().StringVar(&preset, "preset", "", "preset id: 25-5|50-10|custom")
	cmd.Flags().IntVar(&workMinutes, "work", 0, "work minutes (custom preset)")
	cmd.Flags().IntVar(&breakMinutes, "break", 0, "break minutes (custom preset)")
	cmd.Flags().BoolVar(&once, "once", false, "exit after the first break ends")
	return cmd
}
