package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/arloliu/msyt"
	"github.com/arloliu/msyt/internal/logger"
)

// fileFunc converts one file and reports whether it wrote anything.
type fileFunc func(ctx context.Context, j job) (bool, error)

type stats struct {
	changed   atomic.Int64
	unchanged atomic.Int64
	failed    atomic.Int64
	elapsed   time.Duration
}

// runJobs runs fn over jobs with at most workers files in flight. The first
// failure cancels the remaining files unless keepGoing is set, in which case
// every failure is logged and a summary error is returned at the end.
func runJobs(ctx context.Context, jobs []job, workers int, keepGoing bool, fn fileFunc) (*stats, error) {
	log := logger.FromContext(ctx)
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	st := &stats{}
	start := time.Now()
	defer func() { st.elapsed = time.Since(start) }()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for _, j := range jobs {
		if groupCtx.Err() != nil {
			break
		}

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			changed, err := fn(groupCtx, j)
			if err != nil {
				st.failed.Add(1)
				log.Error("failed", "path", j.in, "err", msyt.Describe(err))
				if keepGoing {
					return nil
				}

				return fmt.Errorf("%s: %w", j.in, err)
			}

			if changed {
				st.changed.Add(1)
				log.Debug("written", "path", j.out)
			} else {
				st.unchanged.Add(1)
				log.Debug("unchanged", "path", j.out)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return st, err
	}
	if n := st.failed.Load(); n > 0 {
		return st, fmt.Errorf("%d of %d files failed", n, len(jobs))
	}

	return st, nil
}

// report prints a one-line summary such as "1,204 files exported, 3 unchanged".
func report(w io.Writer, verb string, st *stats) {
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "%d files %s, %d unchanged", st.changed.Load(), verb, st.unchanged.Load())
	if n := st.failed.Load(); n > 0 {
		_, _ = p.Fprintf(w, ", %d failed", n)
	}
	_, _ = p.Fprintf(w, " (%v)\n", st.elapsed.Round(time.Millisecond))
}

func outWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}
