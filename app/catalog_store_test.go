package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"coursedash/domain/catalog"
	"coursedash/internal"
	"coursedash/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is an in-memory CatalogSource that counts reads.
type fakeSource struct {
	mu      sync.Mutex
	files   []ports.SourceFile
	records map[string][]catalog.CourseRecord
	listErr error
	gate    chan struct{}

	reads atomic.Int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{records: make(map[string][]catalog.CourseRecord)}
}

func (f *fakeSource) put(name string, modTime time.Time, records ...catalog.CourseRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.files {
		if existing.Name == name {
			f.files[i].ModTime = modTime
			f.records[name] = records
			return
		}
	}
	f.files = append(f.files, ports.SourceFile{Path: "/data/" + name, Name: name, Size: int64(len(records)), ModTime: modTime})
	f.records[name] = records
}

func (f *fakeSource) List(ctx context.Context) ([]ports.SourceFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]ports.SourceFile(nil), f.files...), nil
}

func (f *fakeSource) Read(ctx context.Context, file ports.SourceFile) ([]catalog.CourseRecord, error) {
	f.reads.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	records, ok := f.records[file.Name]
	if !ok {
		return nil, fmt.Errorf("%s vanished", file.Name)
	}
	return append([]catalog.CourseRecord(nil), records...), nil
}

func newFakeStore(src *fakeSource) *CatalogStore {
	logger := internal.NewNopLogger()
	return NewCatalogStore(NewCatalogLoader(src, 2, logger), logger)
}

var t0 = time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

func TestStoreGetCachesResult(t *testing.T) {
	src := newFakeSource()
	src.put("114-1.xlsx", t0, catalog.CourseRecord{CourseCode: "CS101", Tags: []string{}})
	store := newFakeStore(src)

	first, err := store.Get(context.Background())
	require.NoError(t, err)
	second, err := store.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), src.reads.Load())
	assert.Equal(t, "114", first.Catalog.Records[0].Year)
}

func TestStoreInvalidateReloads(t *testing.T) {
	src := newFakeSource()
	src.put("114-1.xlsx", t0, catalog.CourseRecord{CourseCode: "CS101"})
	store := newFakeStore(src)

	first, err := store.Get(context.Background())
	require.NoError(t, err)

	store.Invalidate()
	assert.Nil(t, store.Current())

	second, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.Catalog.Version, second.Catalog.Version)
	assert.Equal(t, int32(2), src.reads.Load())
}

func TestStoreRefreshOnlyWhenFilesChange(t *testing.T) {
	src := newFakeSource()
	src.put("114-1.xlsx", t0, catalog.CourseRecord{CourseCode: "CS101"})
	store := newFakeStore(src)

	_, err := store.Get(context.Background())
	require.NoError(t, err)

	reloaded, err := store.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, reloaded)
	assert.Equal(t, int32(1), src.reads.Load())

	src.put("114-2.xlsx", t0, catalog.CourseRecord{CourseCode: "CS102"})
	reloaded, err = store.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, reloaded)
	assert.Len(t, store.Current().Catalog.Records, 2)

	src.put("114-2.xlsx", t0.Add(time.Hour), catalog.CourseRecord{CourseCode: "CS103"})
	reloaded, err = store.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, reloaded)
	assert.Equal(t, "CS103", store.Current().Catalog.Records[1].CourseCode)
}

func TestStoreRefreshLoadsWhenEmpty(t *testing.T) {
	src := newFakeSource()
	src.put("113-1.xlsx", t0, catalog.CourseRecord{CourseCode: "A"})
	store := newFakeStore(src)

	reloaded, err := store.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, reloaded)
	require.NotNil(t, store.Current())
}

func TestStoreConcurrentGetLoadsOnce(t *testing.T) {
	src := newFakeSource()
	src.put("114-1.xlsx", t0, catalog.CourseRecord{CourseCode: "CS101"})
	src.gate = make(chan struct{})
	store := newFakeStore(src)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*LoadResult, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := store.Get(context.Background())
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}

	require.Eventually(t, func() bool { return src.reads.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, int32(1), src.reads.Load())
	for _, res := range results[1:] {
		assert.Equal(t, results[0].Catalog.Version, res.Catalog.Version)
	}
}

func TestStoreCancelledCallerDoesNotFailOthers(t *testing.T) {
	src := newFakeSource()
	src.put("114-1.xlsx", t0, catalog.CourseRecord{CourseCode: "CS101"})
	src.gate = make(chan struct{})
	store := newFakeStore(src)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := store.Get(firstCtx)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return src.reads.Load() == 1 }, time.Second, time.Millisecond)

	type outcome struct {
		res *LoadResult
		err error
	}
	second := make(chan outcome, 1)
	go func() {
		res, err := store.Get(context.Background())
		second <- outcome{res, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled Get did not return")
	}

	close(src.gate)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, StatusLoaded, got.res.Status)
	assert.Same(t, got.res, store.Current())
	assert.Equal(t, int32(1), src.reads.Load())
}

func TestStoreDoesNotCacheFailures(t *testing.T) {
	src := newFakeSource()
	src.listErr = fmt.Errorf("permission denied")
	store := newFakeStore(src)

	_, err := store.Get(context.Background())
	require.Error(t, err)
	assert.Nil(t, store.Current())

	src.mu.Lock()
	src.listErr = nil
	src.mu.Unlock()
	src.put("114-1.xlsx", t0, catalog.CourseRecord{CourseCode: "CS101"})

	res, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusLoaded, res.Status)
}

func TestStoreCachesNoData(t *testing.T) {
	src := newFakeSource()
	store := newFakeStore(src)

	res, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusNoData, res.Status)
	assert.Same(t, res, store.Current())
}
