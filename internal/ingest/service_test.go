// StreamGauge - Video Playback Quality Measurement and Live Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamgauge

package ingest

import (
	"context"
	"errors"
	"io"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	testingclock "k8s.io/utils/clock/testing"

	"github.com/tomtom215/streamgauge/internal/cache"
	"github.com/tomtom215/streamgauge/internal/logging"
	"github.com/tomtom215/streamgauge/internal/models"
	"github.com/tomtom215/streamgauge/internal/validation"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// memoryStore mimics the result store: a sequence for ids, newest first.
type memoryStore struct {
	mu      sync.Mutex
	nextID  int64
	rows    []models.QualityReport
	failing error
}

func (m *memoryStore) InsertReport(_ context.Context, r *models.QualityReport) (int64, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return 0, time.Time{}, m.failing
	}
	m.nextID++
	row := *r
	row.ID = m.nextID
	m.rows = append(m.rows, row)
	return row.ID, row.TestTimestamp, nil
}

func (m *memoryStore) ListReports(_ context.Context) ([]models.QualityReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	out := append([]models.QualityReport(nil), m.rows...)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TestTimestamp.Equal(out[j].TestTimestamp) {
			return out[i].TestTimestamp.After(out[j].TestTimestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// countingStore counts ListReports calls that reach the store.
type countingStore struct {
	*memoryStore
	mu    sync.Mutex
	lists int
}

func (c *countingStore) ListReports(ctx context.Context) ([]models.QualityReport, error) {
	c.mu.Lock()
	c.lists++
	c.mu.Unlock()
	return c.memoryStore.ListReports(ctx)
}

func (c *countingStore) listCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lists
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []models.QualityReport
}

func (b *recordingBroadcaster) BroadcastNewResult(r *models.QualityReport) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, *r)
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

type panickingBroadcaster struct{}

func (panickingBroadcaster) BroadcastNewResult(*models.QualityReport) { panic("subscriber gone") }

func sampleReport() *models.QualityReport {
	return &models.QualityReport{
		VideoName:         "Sample",
		StartupTime:       1.23,
		BufferingCount:    2,
		BufferingDuration: 0.8,
		AvgResolution:     "1080p",
		FreezePercent:     3.45,
	}
}

func TestSubmit_SampleRoundTrip(t *testing.T) {
	t.Parallel()

	store := &memoryStore{}
	hub := &recordingBroadcaster{}
	clk := testingclock.NewFakeClock(epoch)
	svc := NewService(store, clk, hub)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, &models.QualityReport{VideoName: "Older", AvgResolution: "720p"}); err != nil {
		t.Fatalf("Submit(older) error = %v", err)
	}
	clk.Step(time.Minute)

	in := sampleReport()
	receipt, err := svc.Submit(ctx, in)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if receipt.ID <= 0 {
		t.Fatalf("receipt id = %d, want > 0", receipt.ID)
	}
	if !receipt.TestTimestamp.Equal(epoch.Add(time.Minute)) {
		t.Errorf("receipt timestamp = %v, want %v", receipt.TestTimestamp, epoch.Add(time.Minute))
	}
	if in.ID != 0 || !in.TestTimestamp.IsZero() {
		t.Error("Submit modified the caller's report")
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d rows, want 2", len(list))
	}
	first := list[0]
	want := *sampleReport()
	want.ID = receipt.ID
	want.TestTimestamp = receipt.TestTimestamp
	if first != want {
		t.Errorf("List()[0] = %+v, want %+v", first, want)
	}

	if hub.count() != 2 {
		t.Fatalf("broadcasts = %d, want 2", hub.count())
	}
	if hub.events[1] != want {
		t.Errorf("broadcast = %+v, want the stored record %+v", hub.events[1], want)
	}
}

func TestSubmit_NormalizesBeforeStoring(t *testing.T) {
	t.Parallel()

	store := &memoryStore{}
	svc := NewService(store, testingclock.NewFakeClock(epoch))

	_, err := svc.Submit(context.Background(), &models.QualityReport{
		VideoName:         "  Padded  ",
		StartupTime:       1.23456,
		BufferingCount:    1,
		BufferingDuration: 0.3333,
		AvgResolution:     "480p",
		FreezePercent:     12.345678,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	got := store.rows[0]
	if got.VideoName != "Padded" || got.StartupTime != 1.23 || got.BufferingDuration != 0.33 || got.FreezePercent != 12.35 {
		t.Errorf("stored = %+v, want trimmed and rounded values", got)
	}
}

func TestSubmit_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*models.QualityReport)
		field  string
	}{
		{"blank name", func(r *models.QualityReport) { r.VideoName = "   " }, "video_name"},
		{"negative startup", func(r *models.QualityReport) { r.StartupTime = -1 }, "startup_time"},
		{"nan freeze", func(r *models.QualityReport) { r.FreezePercent = math.NaN() }, "freeze_percent"},
		{"freeze over 100", func(r *models.QualityReport) { r.FreezePercent = 150 }, "freeze_percent"},
		{"count past INTEGER", func(r *models.QualityReport) { r.BufferingCount = math.MaxInt32 + 1 }, "buffering_count"},
		{"duration without stalls", func(r *models.QualityReport) { r.BufferingCount = 0 }, "buffering_duration"},
		{"blank resolution", func(r *models.QualityReport) { r.AvgResolution = "" }, "avg_resolution"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &memoryStore{}
			hub := &recordingBroadcaster{}
			svc := NewService(store, testingclock.NewFakeClock(epoch), hub)

			r := sampleReport()
			tt.mutate(r)
			_, err := svc.Submit(context.Background(), r)

			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Submit() error = %v, want ErrValidation", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %T is not *ValidationError", err)
			}
			found := false
			for _, fe := range verr.Fields.Errors() {
				if fe.Field() == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected a failure on %s, got %v", tt.field, verr)
			}
			if len(store.rows) != 0 || hub.count() != 0 {
				t.Error("rejected report was stored or broadcast")
			}
		})
	}
}

func TestSubmitRequest_MissingFields(t *testing.T) {
	t.Parallel()

	svc := NewService(&memoryStore{}, testingclock.NewFakeClock(epoch))
	name := "Sample"
	_, err := svc.SubmitRequest(context.Background(), &models.SubmitReportRequest{VideoName: &name})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("SubmitRequest() error = %v, want *ValidationError", err)
	}
	var fields *validation.RequestValidationError
	if !errors.As(err, &fields) || len(fields.Errors()) != 5 {
		t.Errorf("field errors = %v, want 5 missing fields", fields)
	}

	if _, err := svc.SubmitRequest(context.Background(), nil); !errors.Is(err, ErrValidation) {
		t.Errorf("SubmitRequest(nil) error = %v, want ErrValidation", err)
	}
}

func TestSubmitRequest_Accepts(t *testing.T) {
	t.Parallel()

	store := &memoryStore{}
	svc := NewService(store, testingclock.NewFakeClock(epoch))
	receipt, err := svc.SubmitRequest(context.Background(), models.NewSubmitReportRequest(sampleReport()))
	if err != nil {
		t.Fatalf("SubmitRequest() error = %v", err)
	}
	if receipt.ID != 1 {
		t.Errorf("receipt id = %d, want 1", receipt.ID)
	}
}

func TestSubmit_StorageErrorSuppressesBroadcast(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	hub := &recordingBroadcaster{}
	svc := NewService(&memoryStore{failing: cause}, testingclock.NewFakeClock(epoch), hub)

	_, err := svc.Submit(context.Background(), sampleReport())
	if !errors.Is(err, ErrStorage) || !errors.Is(err, cause) {
		t.Fatalf("Submit() error = %v, want ErrStorage wrapping cause", err)
	}
	var serr *StorageError
	if !errors.As(err, &serr) || serr.Op != "insert report" {
		t.Errorf("error = %#v, want *StorageError for insert", err)
	}
	if hub.count() != 0 {
		t.Errorf("broadcasts = %d after a storage failure, want 0", hub.count())
	}

	if _, err := svc.List(context.Background()); !errors.Is(err, ErrStorage) {
		t.Errorf("List() error = %v, want ErrStorage", err)
	}
}

func TestSubmit_BroadcasterPanicDoesNotFailSubmit(t *testing.T) {
	t.Parallel()

	hub := &recordingBroadcaster{}
	svc := NewService(&memoryStore{}, testingclock.NewFakeClock(epoch), panickingBroadcaster{}, nil, hub)

	if _, err := svc.Submit(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if hub.count() != 1 {
		t.Errorf("later broadcaster saw %d events, want 1", hub.count())
	}
}

func TestSubmit_ConcurrentDistinctIncreasingIDs(t *testing.T) {
	t.Parallel()

	svc := NewService(&memoryStore{}, nil)
	const n = 32

	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			receipt, err := svc.Submit(context.Background(), sampleReport())
			if err != nil {
				t.Errorf("Submit() error = %v", err)
				return
			}
			ids[i] = receipt.ID
		}(i)
	}
	wg.Wait()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i := 1; i < n; i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("ids not distinct and increasing: %v", ids)
		}
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	list, err := NewService(&memoryStore{}, nil).List(context.Background())
	if err != nil || list == nil || len(list) != 0 {
		t.Errorf("List() = %#v, %v; want empty slice", list, err)
	}
}

func TestList_CacheServesRepeatsUntilSubmit(t *testing.T) {
	t.Parallel()

	clk := testingclock.NewFakeClock(epoch)
	store := &countingStore{memoryStore: &memoryStore{}}
	svc := NewService(store, clk).WithListCache(cache.New("ingest_test", time.Minute, clk))
	ctx := context.Background()

	if _, err := svc.Submit(ctx, sampleReport()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	first, err := svc.List(ctx)
	if err != nil || len(first) != 1 {
		t.Fatalf("List() = %v, %v", first, err)
	}
	first[0].VideoName = "mutated by caller"

	second, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if store.listCalls() != 1 {
		t.Errorf("store list calls = %d, want 1", store.listCalls())
	}
	if second[0].VideoName != "Sample" {
		t.Errorf("cached listing was mutated through a returned slice: %q", second[0].VideoName)
	}

	clk.Step(time.Second)
	if _, err := svc.Submit(ctx, sampleReport()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	third, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(third) != 2 || third[0].ID != 2 {
		t.Errorf("List() after submit = %+v, want newest first with 2 rows", third)
	}
	if store.listCalls() != 2 {
		t.Errorf("store list calls = %d, want 2", store.listCalls())
	}
}

func TestList_CacheExpires(t *testing.T) {
	t.Parallel()

	clk := testingclock.NewFakeClock(epoch)
	store := &countingStore{memoryStore: &memoryStore{}}
	svc := NewService(store, clk).WithListCache(cache.New("ingest_test", 30*time.Second, clk))

	for i := 0; i < 2; i++ {
		if _, err := svc.List(context.Background()); err != nil {
			t.Fatalf("List() error = %v", err)
		}
	}
	clk.Step(31 * time.Second)
	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if store.listCalls() != 2 {
		t.Errorf("store list calls = %d, want 2", store.listCalls())
	}
}

func TestList_StorageErrorNotCached(t *testing.T) {
	t.Parallel()

	mem := &memoryStore{failing: errors.New("disk gone")}
	store := &countingStore{memoryStore: mem}
	svc := NewService(store, nil).WithListCache(cache.New("ingest_test", time.Minute, nil))

	if _, err := svc.List(context.Background()); !errors.Is(err, ErrStorage) {
		t.Fatalf("List() error = %v, want ErrStorage", err)
	}

	mem.mu.Lock()
	mem.failing = nil
	mem.mu.Unlock()

	list, err := svc.List(context.Background())
	if err != nil || len(list) != 0 {
		t.Fatalf("List() = %v, %v after recovery", list, err)
	}
	if store.listCalls() != 2 {
		t.Errorf("store list calls = %d, want 2", store.listCalls())
	}
}
