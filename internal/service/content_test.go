package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jask/showcase/internal/content"
	"github.com/jask/showcase/internal/database"
	"github.com/jask/showcase/internal/database/repository"
)

func newTestService(t *testing.T, ttl time.Duration) (*ContentService, *repository.KVRepo) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	kv := repository.NewKVRepo(db)
	return NewContentService(kv, content.Default(), ttl, nil), kv
}

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestLoadFallsBackToDefault(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	svc, kv := newTestService(t, 0)

	raw, err := svc.Raw(ctx)
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(raw))

	doc, err := svc.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(content.Default(), doc))

	_, err = kv.Put(ctx, content.Key, []byte(`{}`))
	require.NoError(t, err)
	doc, err = svc.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(content.Default(), doc))
}

func TestSaveThenLoad(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	svc, _ := newTestService(t, time.Minute)

	// Warm the cache with the default.
	_, err := svc.Load(ctx)
	require.NoError(t, err)

	doc := content.Default()
	doc.Home.Title = "New title"
	doc.RemoveCard(0)
	require.NoError(t, svc.Save(ctx, doc))

	got, err := svc.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(doc, got))
}

func TestSaveRejectsInvalid(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	svc, _ := newTestService(t, 0)

	doc := content.Default()
	doc.Home.CoverImage = "not a url"
	err := svc.Save(ctx, doc)
	require.True(t, errors.Is(err, content.ErrInvalid))

	h, err := svc.History(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, h)
}

func TestReplaceKeepsUnknownKeys(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	svc, _ := newTestService(t, time.Minute)

	_, err := svc.Replace(ctx, []byte(`{"home": {"title": "Raw"}, "theme": "dark"}`))
	require.NoError(t, err)

	raw, err := svc.Raw(ctx)
	require.NoError(t, err)
	require.JSONEq(t, `{"home":{"title":"Raw"},"theme":"dark"}`, string(raw))

	doc, err := svc.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Raw", doc.Home.Title)
}

func TestReplaceRejectsNonObject(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	svc, _ := newTestService(t, 0)

	for _, body := range []string{`[1,2]`, `"x"`, `null`, `{"home":`} {
		_, err := svc.Replace(ctx, []byte(body))
		require.True(t, errors.Is(err, content.ErrInvalid), "body %s", body)
	}
}

func TestHistoryAndRestore(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	svc, kv := newTestService(t, 0)
	kv.KeepHistory(3)

	var revisions []string
	for _, title := range []string{"one", "two", "three", "four"} {
		e, err := svc.Replace(ctx, []byte(`{"home":{"title":"`+title+`"}}`))
		require.NoError(t, err)
		revisions = append(revisions, e.Revision)
	}

	h, err := svc.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, h, 3)
	require.Equal(t, revisions[3], h[0].Revision)
	require.Equal(t, revisions[1], h[2].Revision)

	_, err = svc.Restore(ctx, revisions[0])
	require.True(t, errors.Is(err, repository.ErrNotFound))

	_, err = svc.Restore(ctx, revisions[1])
	require.NoError(t, err)
	doc, err := svc.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "two", doc.Home.Title)
}

func TestSeedIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	svc, _ := newTestService(t, 0)

	seeded, err := svc.Seed(ctx)
	require.NoError(t, err)
	require.True(t, seeded)
	seeded, err = svc.Seed(ctx)
	require.NoError(t, err)
	require.False(t, seeded)

	h, err := svc.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, h, 1)
}

func TestMaintenanceReset(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.OpenMigrated(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := NewContentService(repository.NewKVRepo(db), content.Default(), 0, nil)
	_, err = svc.Seed(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Save(ctx, content.Default()))
	m := &MaintenanceService{DB: db}
	res, err := m.Reset(ctx)
	require.NoError(t, err)
	require.Equal(t, ResetResult{Keys: 1, Revisions: 2}, res)

	raw, err := svc.Raw(ctx)
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(raw))

	_, err = (&MaintenanceService{}).Reset(ctx)
	require.Error(t, err)
}

func TestImportFileSkipsUnchanged(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	svc, _ := newTestService(t, 0)
	ingest := &IngestService{Content: svc}

	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	data, err := content.Encode(content.Default(), content.FormatYAML)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	// Identical to the fallback already shown.
	res, err := ingest.ImportFile(ctx, path)
	require.NoError(t, err)
	require.True(t, res.Skipped)
	require.Equal(t, 5, res.Cards)

	edited := strings.Replace(string(data), content.Default().Home.Title, "Edited", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o600))
	res, err = ingest.ImportFile(ctx, path)
	require.NoError(t, err)
	require.False(t, res.Skipped)
	require.Equal(t, []string{"home.title"}, res.Changed)

	doc, err := svc.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Edited", doc.Home.Title)
}

func TestImportRejectsInvalidDocument(t *testing.T) {
	t.Parallel()
	ctx := testCtx(t)
	svc, _ := newTestService(t, 0)
	ingest := &IngestService{Content: svc}

	_, err := ingest.Import(ctx, strings.NewReader(`{"detail":{"cards":["nope"]}}`), content.FormatJSON)
	require.True(t, errors.Is(err, content.ErrInvalid))
}

func TestDiff(t *testing.T) {
	t.Parallel()

	a := content.Default()
	b := a.Clone()
	require.Empty(t, Diff(a, b))

	b.Detail.QRText = "x"
	b.MoveCard(0, 1)
	require.Equal(t, []string{"detail.cards", "detail.qrText"}, Diff(a, b))

	require.Empty(t, Diff(content.SiteContent{Detail: content.Detail{Cards: []string{}}}, content.SiteContent{}))
}

func TestWatchReimportsOnChange(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc, _ := newTestService(t, 0)
	ingest := &IngestService{Content: svc}

	path := filepath.Join(t.TempDir(), "site.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	results := make(chan IngestResult, 4)
	done := make(chan error, 1)
	go func() {
		done <- ingest.Watch(ctx, path, 20*time.Millisecond, nil, func(res IngestResult, err error) {
			if err == nil {
				results <- res
			}
		})
	}()

	// The watch is registered asynchronously; keep writing until it is seen.
	doc := `{
		// edited from the watch test
		"home": {"title": "Watched"},
	}`
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(doc), 0o600)
		select {
		case res := <-results:
			return !res.Skipped
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	got, err := svc.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Watched", got.Home.Title)

	cancel()
	require.NoError(t, <-done)
}
