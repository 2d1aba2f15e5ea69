package deps

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsb/pkg/coord"
	"github.com/matzehuels/jsb/pkg/httputil"
)

// DefaultRetryDelay is the wait before the first retry of a failed download.
const DefaultRetryDelay = time.Second

// Downloader fetches one archive into a directory and returns its path.
type Downloader interface {
	Download(ctx context.Context, c coord.Coordinate, destDir string) (string, error)
}

// Fetcher downloads missing archives for a Store.
type Fetcher struct {
	Store      *Store
	Downloader Downloader

	// Retries is the number of extra attempts after a retryable network
	// failure. Zero means a single attempt.
	Retries    int
	RetryDelay time.Duration

	Logger *log.Logger

	// OnFetched, when set, is called after each successful download.
	OnFetched func(c coord.Coordinate, done, total int)
}

// FetchMissing downloads every declared coordinate whose archive is not yet
// cached and returns the paths written. The first failure stops the batch
// and is returned together with the paths written before it.
func (f *Fetcher) FetchMissing(ctx context.Context) ([]string, error) {
	missing, err := f.Store.ResolveMissing()
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, missing)
}

// Fetch downloads the given coordinates into the cache directory in order.
func (f *Fetcher) Fetch(ctx context.Context, coords []coord.Coordinate) ([]string, error) {
	logger := f.logger()
	delay := f.RetryDelay
	if delay <= 0 {
		delay = DefaultRetryDelay
	}

	paths := make([]string, 0, len(coords))
	for i, c := range coords {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		logger.Info("Loading dependency", "coordinate", c.String())
		start := time.Now()

		var path string
		err := httputil.Retry(ctx, 1+max(f.Retries, 0), delay, func() error {
			p, err := f.Downloader.Download(ctx, c, f.Store.CacheDir())
			if err != nil {
				if httputil.IsRetryable(err) {
					logger.Warn("Download failed", "coordinate", c.String(), "error", err)
				}
				return err
			}
			path = p
			return nil
		})
		if err != nil {
			logger.Error("Failed loading dependency", "coordinate", c.String(), "error", err)
			return paths, err
		}

		logger.Info("Finished loading dependency", "coordinate", c.String(), "elapsed", time.Since(start).Round(time.Millisecond))
		paths = append(paths, path)
		if f.OnFetched != nil {
			f.OnFetched(c, i+1, len(coords))
		}
	}
	return paths, nil
}

func (f *Fetcher) logger() *log.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return log.Default()
}
