package middleware

import (
	"context"
	"log/slog"

	"stayrent/internal/app/commands"
	"stayrent/internal/app/outbox"
)

// OutboxFlush releases the events staged by a successful command. The
// command's state is already saved at that point, so a failed flush is
// logged and the result still returned; the staged events go out with the
// next successful flush.
func OutboxFlush(box outbox.Outbox, logger *slog.Logger) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if ferr := box.Flush(ctx); ferr != nil {
				logger.WarnContext(ctx, "outbox flush failed", "key", cmd.Key(), "error", ferr)
			}
			return res, nil
		})
	}
}
