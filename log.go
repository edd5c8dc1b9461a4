package syncpool

import "github.com/joeycumines/logiface"

// poolLogger is the diagnostic sink a Pool uses when one has been
// configured via WithLogger. It is deliberately a narrow subset of
// *logiface.Logger[logiface.Event]'s surface - just the handful of calls
// the pool itself makes - so that callers can supply any *logiface.Logger
// instantiated over any Event implementation (zerolog, slog, stumpy, ...),
// matching how logiface itself is consumed throughout the rest of the
// teacher's monorepo.
type poolLogger struct {
	log *logiface.Logger[logiface.Event]
}

// WithLogger attaches a structured diagnostic logger to p, using the
// teacher's own logging abstraction (github.com/joeycumines/logiface). A
// nil logger (the default) makes every diagnostic call in this file a
// no-op: logging is strictly optional, matching spec.md's "no panics, pool
// always remains usable" philosophy - a pool is fully functional with zero
// observability wired in.
//
// Example, wiring the slog backend via NewSlogLogger:
//
//	handler := slog.NewJSONHandler(os.Stderr, nil)
//	p := syncpool.New[Buffer]().WithLogger(syncpool.NewSlogLogger(handler))
func (p *Pool[T]) WithLogger(log *logiface.Logger[logiface.Event]) *Pool[T] {
	p.logger = poolLogger{log: log}
	return p
}

func (l poolLogger) miss(buckets int) {
	if l.log == nil {
		return
	}
	l.log.Debug().Int("buckets", buckets).Log("syncpool: allocation miss, constructing fresh value")
}

func (l poolLogger) putExhausted(buckets int) {
	if l.log == nil {
		return
	}
	l.log.Debug().Int("buckets", buckets).Log("syncpool: put exhausted contention trials, returning value to caller")
}

func (l poolLogger) expandDenied(reason string) {
	if l.log == nil {
		return
	}
	l.log.Warning().Str("reason", reason).Log("syncpool: expand denied")
}

func (l poolLogger) expanded(additional, total int) {
	if l.log == nil {
		return
	}
	l.log.Info().Int("additional", additional).Int("buckets", total).Log("syncpool: expanded")
}

func (l poolLogger) refilled(count int) {
	if l.log == nil {
		return
	}
	l.log.Debug().Int("count", count).Log("syncpool: refilled")
}
