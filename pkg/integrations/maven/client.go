package maven

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/jsb/pkg/cache"
	"github.com/matzehuels/jsb/pkg/coord"
	jsberrors "github.com/matzehuels/jsb/pkg/errors"
	"github.com/matzehuels/jsb/pkg/integrations"
	"github.com/matzehuels/jsb/pkg/observability"
)

// DefaultRepository is Maven Central.
const DefaultRepository = "https://repo1.maven.org/maven2/"

// chunkSize is the copy buffer used while streaming an artifact to disk.
const chunkSize = 32 * 1024

// Client resolves coordinates against one Maven-layout repository.
//
// All methods are safe for concurrent use by multiple goroutines, although
// jsb itself only ever drives one request at a time.
type Client struct {
	*integrations.Client
	baseURL string
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithCache memoizes positive probe results in c for ttl.
// Negative results are never stored.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		if c != nil {
			cl.cache = c
		}
		cl.ttl = ttl
	}
}

// WithKeyer overrides how probe cache keys are derived.
func WithKeyer(k cache.Keyer) Option {
	return func(cl *Client) {
		if k != nil {
			cl.keyer = k
		}
	}
}

// WithHeaders sets headers sent with every request, e.g. Authorization for
// a private mirror.
func WithHeaders(h map[string]string) Option {
	return func(cl *Client) {
		cl.Client = integrations.NewClient(h)
	}
}

// NewClient creates a client for the repository rooted at baseURL.
// An empty baseURL selects [DefaultRepository].
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultRepository
	}
	c := &Client{
		Client:  integrations.NewClient(nil),
		baseURL: baseURL,
		cache:   cache.NewNullCache(),
		keyer:   cache.NewDefaultKeyer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the repository root.
func (c *Client) BaseURL() string { return c.baseURL }

// ArtifactURL returns the absolute URL of the archive for co.
func (c *Client) ArtifactURL(co coord.Coordinate) string {
	return co.URL(c.baseURL)
}

// Probe reports whether the archive for co exists in the repository.
// Any failure, including network errors, reads as false.
func (c *Client) Probe(ctx context.Context, co coord.Coordinate) bool {
	ok, _ := c.ProbeErr(ctx, co)
	return ok
}

// ProbeErr is [Client.Probe] with the failure detail kept.
//
// A 404 is (false, nil). Transport failures and unexpected statuses are
// NETWORK_ERROR; a repository URL that is not http(s) is INVALID_INPUT.
func (c *Client) ProbeErr(ctx context.Context, co coord.Coordinate) (bool, error) {
	if err := jsberrors.ValidateURL(c.baseURL); err != nil {
		return false, err
	}

	key := c.keyer.ProbeKey(c.baseURL, co.String())
	if _, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "probe")
		return true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "probe")

	ok, err := c.Exists(ctx, c.ArtifactURL(co))
	if err != nil {
		return false, jsberrors.Wrap(jsberrors.ErrCodeNetwork, err, "probe %s", co)
	}
	if ok {
		marker := []byte(time.Now().UTC().Format(time.RFC3339))
		if err := c.cache.Set(ctx, key, marker, c.ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, "probe", len(marker))
		}
	}
	return ok, nil
}

// Download streams the archive for co into destDir and returns its path.
//
// The body is written to a uniquely named ".part" file that is renamed to
// co.ArchiveFileName() only after the copy completes. On any failure the
// temporary file is removed, so destDir never holds a truncated archive under
// its final name. Existing archives with the same name are replaced.
//
// Coordinates that fail [coord.Coordinate.Validate] are rejected with
// INVALID_COORDINATE before any request. Other errors carry NOT_FOUND,
// NETWORK_ERROR or FILESYSTEM_ERROR. Retryable
// network failures stay detectable with [httputil.IsRetryable].
func (c *Client) Download(ctx context.Context, co coord.Coordinate, destDir string) (path string, err error) {
	start := time.Now()
	var written int64
	defer func() {
		observability.Pipeline().OnDownload(ctx, co.String(), written, time.Since(start), err)
	}()

	if err := jsberrors.ValidateURL(c.baseURL); err != nil {
		return "", err
	}
	if err := co.Validate(); err != nil {
		return "", err
	}
	name := co.ArchiveFileName()
	if !filepath.IsLocal(name) || filepath.Base(name) != name {
		return "", jsberrors.New(jsberrors.ErrCodeInvalidCoordinate, "archive name %q escapes %s", name, destDir)
	}

	body, _, err := c.Stream(ctx, c.ArtifactURL(co))
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return "", jsberrors.Wrap(jsberrors.ErrCodeNotFound, err, "%s not found in %s", co, c.baseURL)
		}
		return "", jsberrors.Wrap(jsberrors.ErrCodeNetwork, err, "download %s", co)
	}
	defer body.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", jsberrors.Wrap(jsberrors.ErrCodeFilesystem, err, "create %s", destDir)
	}

	tmpPath := filepath.Join(destDir, uuid.NewString()+".part")
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", jsberrors.Wrap(jsberrors.ErrCodeFilesystem, err, "create %s", tmpPath)
	}
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	written, err = copyChunks(f, body)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		var rerr *readError
		if errors.As(err, &rerr) {
			return "", jsberrors.Wrap(jsberrors.ErrCodeNetwork, rerr.err, "download %s", co)
		}
		return "", jsberrors.Wrap(jsberrors.ErrCodeFilesystem, err, "write %s", tmpPath)
	}

	path = filepath.Join(destDir, name)
	if err = os.Rename(tmpPath, path); err != nil {
		return "", jsberrors.Wrap(jsberrors.ErrCodeFilesystem, err, "rename %s", path)
	}
	return path, nil
}

// readError marks a failure on the network side of a copy.
type readError struct{ err error }

func (e *readError) Error() string { return e.err.Error() }

func copyChunks(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, chunkSize)
	var n int64
	for {
		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := dst.Write(buf[:nr])
			n += int64(nw)
			if werr != nil {
				return n, werr
			}
			if nw != nr {
				return n, io.ErrShortWrite
			}
		}
		if rerr == io.EOF {
			return n, nil
		}
		if rerr != nil {
			return n, &readError{err: rerr}
		}
	}
}

// IsPartial reports whether name is a temporary download file.
func IsPartial(name string) bool {
	return strings.HasSuffix(name, ".part")
}
