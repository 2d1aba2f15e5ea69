package metrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/jsb/pkg/errors"
	"github.com/matzehuels/jsb/pkg/observability"
)

func TestRecorderStages(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder(prom.NewRegistry())

	rec.OnStageComplete(ctx, observability.StageCompile, 150*time.Millisecond, nil)
	rec.OnStageComplete(ctx, observability.StageCompile, time.Second, errors.New(errors.ErrCodeNoSources, "none"))
	rec.OnStageComplete(ctx, observability.StageFetch, time.Second, fmt.Errorf("plain"))

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.stageResults.WithLabelValues("compile", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.stageResults.WithLabelValues("compile", "NO_SOURCES")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.stageResults.WithLabelValues("fetch", "error")))
}

func TestRecorderDownloadsAndCache(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder(nil)

	rec.OnDownload(ctx, "a:b:1", 2048, time.Second, nil)
	rec.OnDownload(ctx, "a:b:2", 0, time.Second, errors.New(errors.ErrCodeNotFound, "missing"))
	rec.OnCacheHit(ctx, "probe")
	rec.OnCacheMiss(ctx, "probe")
	rec.OnCacheMiss(ctx, "probe")
	rec.OnCacheSet(ctx, "probe", 20)

	assert.Equal(t, 2048.0, testutil.ToFloat64(rec.downloadBytes))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.cacheEvents.WithLabelValues("probe", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.cacheEvents.WithLabelValues("probe", "set")))
}

func TestRecorderHTTP(t *testing.T) {
	ctx := context.Background()
	rec := NewRecorder(nil)

	rec.OnRequest(ctx, "HEAD", "repo1.maven.org", "/maven2/x.jar")
	rec.OnResponse(ctx, "HEAD", "repo1.maven.org", "/maven2/x.jar", 404, 20*time.Millisecond)
	rec.OnError(ctx, "GET", "repo1.maven.org", "/maven2/y.jar", fmt.Errorf("reset"))

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.httpRequests.WithLabelValues("HEAD", "repo1.maven.org", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.httpErrors.WithLabelValues("GET", "repo1.maven.org")))
}

func TestRecorderRegister(t *testing.T) {
	t.Cleanup(observability.Reset)
	rec := NewRecorder(nil)
	rec.Register()

	observability.Pipeline().OnStageComplete(context.Background(), "run", time.Millisecond, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.stageResults.WithLabelValues("run", "success")))
}

func TestRecorderWriteFile(t *testing.T) {
	rec := NewRecorder(nil)
	rec.OnStageComplete(context.Background(), "package", time.Second, nil)

	path := filepath.Join(t.TempDir(), "jsb.prom")
	require.NoError(t, rec.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `jsb_stage_results_total{result="success",stage="package"} 1`), string(data))
}

func TestRecorderWriteFileError(t *testing.T) {
	rec := NewRecorder(nil)
	err := rec.WriteFile(filepath.Join(t.TempDir(), "missing", "jsb.prom"))
	assert.True(t, errors.Is(err, errors.ErrCodeFilesystem))
}
