package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notionexport/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notionexport/internal/core/domain"
	"github.com/custodia-labs/notionexport/internal/core/ports/driving"
	"github.com/custodia-labs/notionexport/internal/renderers/markdown"
)

func newTestService(src *fakeSource, writer *recordingWriter) (*ExportService, *memory.ManifestStore) {
	manifest := memory.NewManifestStore()
	svc := NewExportService(src, markdown.New(), writer, manifest)
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, manifest
}

func runExport(t *testing.T, src *fakeSource, opts driving.ExportOptions) (*domain.Summary, *recordingWriter, error) {
	t.Helper()
	writer := newRecordingWriter()
	svc, _ := newTestService(src, writer)
	summary, err := svc.Run(context.Background(), opts)
	require.NotNil(t, summary)
	return summary, writer, err
}

func TestExportService_CollectionScenario(t *testing.T) {
	a, b, db := docID(1), docID(2), docID(10)
	src := newFakeSource().
		collection(db, "Team Wiki", []domain.DocumentRef{member(a, "Page A"), member(b, "Page B")}).
		page(a, "Page A", para("Intro"), linkTo(b)).
		page(b, "Page B", para("B body"))

	summary, writer, err := runExport(t, src, driving.ExportOptions{RootID: db, RewriteLinks: true})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusOK, summary.Status)

	aPath := Slug("Page A", a) + ".md"
	bPath := Slug("Page B", b) + ".md"
	dbPath := Slug("Team Wiki", db) + ".md"
	assert.Contains(t, writer.files, aPath)
	assert.Contains(t, writer.files, bPath)
	assert.Contains(t, writer.files[aPath], "- [Page B](./"+bPath+")")
	assert.Contains(t, writer.files[dbPath], "- [Page A](./"+aPath+")\n- [Page B](./"+bPath+")")

	index := writer.files[IndexFileName]
	assert.Contains(t, index, "- [Page A](./"+aPath+")")
	assert.Contains(t, index, "- [Page B](./"+bPath+")")
}

func TestExportService_ForbiddenScenario(t *testing.T) {
	a, c := docID(1), docID(3)
	src := newFakeSource().
		page(a, "Page A", mention(c, "Page C")).
		page(c, "Page C", para("secret"))
	src.fail(c, fetchErr(domain.FailureForbidden))

	summary, writer, err := runExport(t, src, driving.ExportOptions{RootID: a, RewriteLinks: true})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPartial, summary.Status)
	assert.Equal(t, 1, summary.Status.ExitCode())

	aContent := writer.files[Slug("Page A", a)+".md"]
	assert.Contains(t, aContent, "see [Page C]("+NotionURL(c)+")")
	assert.NotContains(t, writer.files, Slug("Page C", c)+".md")
	assert.Len(t, writer.files, 2)

	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, domain.Skip{
		ID:     c,
		Title:  "Page C",
		Reason: domain.FailureForbidden,
		Detail: summary.Skipped[0].Detail,
	}, summary.Skipped[0])
}

func TestExportService_RateLimitScenario(t *testing.T) {
	a, d := docID(1), docID(4)
	src := newFakeSource().
		page(a, "Page A", linkTo(d)).
		page(d, "Page D", para("D body"))
	src.fail(d, &throttled{}, &throttled{})

	rec := &sleepRecorder{}
	retrying := NewRetryingSource(src, classifyTest, DefaultRetryPolicy()).WithSleeper(rec.sleep)
	writer := newRecordingWriter()
	svc := NewExportService(retrying, markdown.New(), writer, nil)

	summary, err := svc.Run(context.Background(), driving.ExportOptions{RootID: a, RewriteLinks: true})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusOK, summary.Status)
	assert.Empty(t, summary.Skipped)
	assert.Equal(t, 3, src.fetchCount(d))
	assert.Contains(t, writer.files, Slug("Page D", d)+".md")
}

func TestExportService_NoRewriteScenario(t *testing.T) {
	a, b := docID(1), docID(2)
	src := newFakeSource().
		page(a, "Page A", linkTo(b)).
		page(b, "Page B", para("B body"))

	_, writer, err := runExport(t, src, driving.ExportOptions{RootID: a, RewriteLinks: false})

	require.NoError(t, err)
	assert.Contains(t, writer.files, Slug("Page B", b)+".md", "B is still exported")
	assert.Contains(t, writer.files[Slug("Page A", a)+".md"],
		"- [Page B](https://www.notion.so/"+compactID(b)+")")
}

func TestExportService_DiamondRenderedOnce(t *testing.T) {
	root, left, right, shared := docID(1), docID(2), docID(3), docID(4)
	src := newFakeSource().
		page(root, "Root", linkTo(left), linkTo(right)).
		page(left, "Left", linkTo(shared)).
		page(right, "Right", linkTo(shared)).
		page(shared, "Shared", para("once"))

	summary, writer, err := runExport(t, src, driving.ExportOptions{RootID: root, RewriteLinks: true, Workers: 4})

	require.NoError(t, err)
	assert.Equal(t, 1, src.fetchCount(shared))
	count := 0
	for _, path := range writer.order {
		if path == Slug("Shared", shared)+".md" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, summary.Files, 4)
}

func TestExportService_SameTitleDistinctFiles(t *testing.T) {
	root, x, y := docID(1), docID(2), docID(3)
	src := newFakeSource().
		page(root, "Root", linkTo(x), linkTo(y)).
		page(x, "Notes", para("x")).
		page(y, "Notes", para("y"))

	summary, _, err := runExport(t, src, driving.ExportOptions{RootID: root, RewriteLinks: true})

	require.NoError(t, err)
	paths := map[string]bool{}
	for _, f := range summary.Files {
		assert.False(t, paths[f.Path], "duplicate path %s", f.Path)
		paths[f.Path] = true
	}
	assert.Len(t, paths, 3)
}

func TestExportService_OutputIndependentOfOrder(t *testing.T) {
	export := func(opts driving.ExportOptions) map[string]string {
		writer := newRecordingWriter()
		svc, _ := newTestService(workspace(), writer)
		opts.RootID = docID(1)
		opts.RewriteLinks = true
		_, err := svc.Run(context.Background(), opts)
		require.NoError(t, err)
		return writer.files
	}

	want := export(driving.ExportOptions{Workers: 1, Order: driving.OrderBreadthFirst})
	require.NotEmpty(t, want)

	assert.Equal(t, want, export(driving.ExportOptions{Workers: 1, Order: driving.OrderDepthFirst}))
	assert.Equal(t, want, export(driving.ExportOptions{Workers: 6, Order: driving.OrderBreadthFirst}))

	t.Run("random picks", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(42, 7))
		registry, err := NewCrawler(workspace()).
			WithWorkers(3).
			WithPicker(func(n int) int { return rng.IntN(n) }).
			Discover(context.Background(), domain.DocumentRef{ID: docID(1)})
		require.NoError(t, err)

		writer := newRecordingWriter()
		NewExportWriter(markdown.New(), writer, true).ExportAll(registry, &domain.Summary{})
		assert.Equal(t, want, writer.files)
	})

	t.Run("idempotent", func(t *testing.T) {
		assert.Equal(t, want, export(driving.ExportOptions{Workers: 1, Order: driving.OrderBreadthFirst}))
	})
}

func TestExportService_AbortWritesNothing(t *testing.T) {
	a, b := docID(1), docID(2)
	src := newFakeSource().
		page(a, "Page A", linkTo(b)).
		page(b, "Page B", para("x"))
	src.fail(b, fetchErr(domain.FailureAuth))
	writer := newRecordingWriter()
	svc, manifest := newTestService(src, writer)

	summary, err := svc.Run(context.Background(), driving.ExportOptions{RootID: a, RewriteLinks: true})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAborted)
	assert.Equal(t, domain.StatusAborted, summary.Status)
	assert.Equal(t, 2, summary.Status.ExitCode())
	assert.Empty(t, writer.files)

	runs := manifest.Runs()
	require.Len(t, runs, 1)
	assert.Equal(t, domain.StatusAborted, runs[0].Status)
}

func TestExportService_RecordsManifest(t *testing.T) {
	src := newFakeSource().page(docID(1), "Home", para("hello"))
	writer := newRecordingWriter()
	svc, manifest := newTestService(src, writer)

	summary, err := svc.Run(context.Background(), driving.ExportOptions{RootID: docID(1), RewriteLinks: true})

	require.NoError(t, err)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, docID(1), summary.RootID)
	assert.True(t, summary.FinishedAt.After(summary.StartedAt))

	runs := manifest.Runs()
	require.Len(t, runs, 1)
	assert.Equal(t, summary.RunID, runs[0].RunID)
	assert.Len(t, runs[0].Documents, 1)
	assert.Len(t, runs[0].Files, 1)
}

func TestExportService_ManifestFailureDoesNotFailRun(t *testing.T) {
	src := newFakeSource().page(docID(1), "Home", para("hello"))
	writer := newRecordingWriter()
	svc, manifest := newTestService(src, writer)
	manifest.FailWith(errors.New("locked"))

	summary, err := svc.Run(context.Background(), driving.ExportOptions{RootID: docID(1), RewriteLinks: true})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusOK, summary.Status)
}
