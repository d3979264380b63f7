package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/porenet/pkg/errors"
	"github.com/matzehuels/porenet/pkg/pipeline"
	"github.com/matzehuels/porenet/pkg/sweep"
)

func testResult(created time.Time) *pipeline.Result {
	return &pipeline.Result{
		ID:        uuid.NewString(),
		CreatedAt: created,
		Options: pipeline.Options{
			Steps:    5,
			Seed:     3,
			Variants: []sweep.Variant{{Name: "random", Kind: "uniform", Nodes: 10, Edges: 10}},
		},
		Series: []*sweep.Series{{
			Variant: sweep.Variant{Name: "random", Kind: "uniform", Nodes: 10, Edges: 10},
			Records: []sweep.Record{{Step: 0, Level: 80, AirFilled: 2, Present: 8, Total: 10, Fraction: 0.25}},
		}},
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, DefaultListLimit},
		{-4, DefaultListLimit},
		{1, 1},
		{50, 50},
		{MaxListLimit + 1, MaxListLimit},
	}
	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMemoryStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	defer s.Close()

	res := testResult(time.Now())
	if err := s.Save(ctx, res); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(ctx, res.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != res.ID || got.Series[0].Final() != res.Series[0].Final() {
		t.Errorf("Get returned %+v", got)
	}

	if _, err := s.Get(ctx, uuid.NewString()); !errors.Is(err, errors.ErrCodeRunNotFound) {
		t.Errorf("missing run error = %v", err)
	}
	if err := s.Save(ctx, &pipeline.Result{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("saving a run without ID = %v", err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := range 5 {
		res := testResult(base.Add(time.Duration(i) * time.Minute))
		ids = append(ids, res.ID)
		if err := s.Save(ctx, res); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.List(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(list))
	}
	for i, want := range []string{ids[4], ids[3], ids[2]} {
		if list[i].ID != want {
			t.Errorf("list[%d] = %s, want %s", i, list[i].ID, want)
		}
	}
	if list[0].Steps != 5 || fmt.Sprint(list[0].Variants) != "[random]" {
		t.Errorf("summary = %+v", list[0])
	}
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)

	first := testResult(time.Now())
	second := testResult(time.Now())
	third := testResult(time.Now())
	for _, r := range []*pipeline.Result{first, second, third} {
		if err := s.Save(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if _, err := s.Get(ctx, first.ID); err == nil {
		t.Error("oldest run should have been evicted")
	}
	if _, err := s.Get(ctx, third.ID); err != nil {
		t.Errorf("newest run missing: %v", err)
	}

	// Re-saving moves a run to the front instead of duplicating it.
	if err := s.Save(ctx, second); err != nil {
		t.Fatal(err)
	}
	list, _ := s.List(ctx, 0)
	if len(list) != 2 || list[0].ID != second.ID {
		t.Errorf("after re-save list = %+v", list)
	}
}

func TestNewMongoStoreRejectsBadURI(t *testing.T) {
	_, err := NewMongoStore(context.Background(), "http://localhost:27017", "porenet")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad scheme error = %v", err)
	}
}

// TestMongoStore runs against a live server when PORENET_TEST_MONGO is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("PORENET_TEST_MONGO")
	if uri == "" {
		t.Skip("PORENET_TEST_MONGO not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "porenet_test_"+uuid.NewString()[:8])
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = s.runs.Database().Drop(ctx)
		_ = s.Close()
	}()

	res := testResult(time.Now().UTC().Truncate(time.Millisecond))
	if err := s.Save(ctx, res); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(ctx, res.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Series[0].Final() != res.Series[0].Final() {
		t.Error("stored series differs")
	}
	list, err := s.List(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != res.ID || list[0].Seed != 3 {
		t.Errorf("List() = %+v", list)
	}
	if _, err := s.Get(ctx, uuid.NewString()); !errors.Is(err, errors.ErrCodeRunNotFound) {
		t.Errorf("missing run error = %v", err)
	}
}
