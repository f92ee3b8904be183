package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"stayhub/internal/pkg/config"
	"stayhub/internal/usecase/commands"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Invoke(StartCompletionSweeper),
)

// StartCompletionSweeper periodically settles confirmed bookings whose range
// has ended. Reads already derive completion lazily; the sweep keeps the
// stored rows converging on the same answer.
func StartCompletionSweeper(lc fx.Lifecycle, cfg config.Config, bookingCommands commands.BookingCommands) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.Booking.SweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						sweepCtx, sweepCancel := context.WithTimeout(ctx, cfg.Booking.OpTimeout)
						if _, err := bookingCommands.CompleteElapsed(sweepCtx); err != nil {
							slog.Error("completion sweep failed", "error", err.Error())
						}
						sweepCancel()
					}
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}
