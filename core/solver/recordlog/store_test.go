package recordlog

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/snapshot"
	tu "github.com/kilianp07/pdptw/internal/testutil"
)

func entry(t *testing.T, ts time.Time, solver string, ps ...*model.Parcel) Entry {
	t.Helper()
	s := tu.State(t, 0, ps, tu.Idle(t, model.Pt(0, 0), nil))
	var route model.Route
	for _, p := range ps {
		route = append(route, p, p)
	}
	return Entry{
		ID:        uuid.New(),
		Timestamp: ts,
		Solver:    solver,
		Input:     snapshot.NewRecord(s),
		Output:    snapshot.RouteIDs([]model.Route{route}),
		Duration:  time.Millisecond,
	}
}

// exercise runs the same scenario against every backend.
func exercise(t *testing.T, store Store) {
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := tu.Parcel(model.Pt(1, 1), model.Pt(2, 2))
	b := tu.Parcel(model.Pt(3, 3), model.Pt(4, 4))

	e1 := entry(t, base, "random", a)
	e2 := entry(t, base.Add(time.Minute), "random", a, b)
	e3 := entry(t, base.Add(2*time.Minute), "other", b)
	e3.Error = "boom"
	e3.Output = nil
	for _, e := range []Entry{e1, e2, e3} {
		require.NoError(t, store.Append(ctx, e))
	}

	ids := func(es []Entry) []uuid.UUID {
		out := make([]uuid.UUID, len(es))
		for i, e := range es {
			out[i] = e.ID
		}
		return out
	}
	cases := []struct {
		name string
		q    Query
		want []uuid.UUID
	}{
		{"all", Query{}, []uuid.UUID{e1.ID, e2.ID, e3.ID}},
		{"start", Query{Start: base.Add(30 * time.Second)}, []uuid.UUID{e2.ID, e3.ID}},
		{"end", Query{End: base.Add(time.Minute)}, []uuid.UUID{e1.ID, e2.ID}},
		{"solver", Query{Solver: "other"}, []uuid.UUID{e3.ID}},
		{"parcel", Query{ParcelID: b.ID()}, []uuid.UUID{e2.ID, e3.ID}},
		{"unknown parcel", Query{ParcelID: uuid.New()}, []uuid.UUID{}},
	}
	for _, tc := range cases {
		out, err := store.Query(ctx, tc.q)
		require.NoError(t, err, tc.name)
		assert.ElementsMatch(t, tc.want, ids(out), tc.name)
	}

	out, err := store.Query(ctx, Query{ParcelID: a.ID(), End: base})
	require.NoError(t, err)
	require.Len(t, out, 1)
	got := out[0]
	assert.Equal(t, "random", got.Solver)
	assert.True(t, got.Timestamp.Equal(base))
	assert.Equal(t, time.Millisecond, got.Duration)
	require.Len(t, got.Output, 1)
	assert.Equal(t, []uuid.UUID{a.ID(), a.ID()}, got.Output[0])

	// the recorded input restores into an equivalent snapshot
	s, idx, err := snapshot.FromRecord(got.Input, tu.Plane(t))
	require.NoError(t, err)
	assert.Equal(t, 1, s.NumVehicles())
	assert.Equal(t, a.PickupLocation(), idx[a.ID()].PickupLocation())
}

func TestJSONLStore(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "solves.jsonl"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	exercise(t, store)
}

func TestRotatingJSONLStore(t *testing.T) {
	store, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "logs", "solves.jsonl"), 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	exercise(t, store)
}

func TestRotatingJSONLStore_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solves.jsonl")
	store, err := NewRotatingJSONLStore(path, 1, 5, 1)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	e := entry(t, time.Now(), "random", tu.Parcel(model.Pt(1, 1), model.Pt(2, 2)))
	e.Error = strings.Repeat("x", 64*1024)
	for i := 0; i < 20; i++ {
		e.ID = uuid.New()
		if err := store.Append(context.Background(), e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	files, _ := filepath.Glob(filepath.Join(dir, "solves*.jsonl"))
	if len(files) < 2 {
		t.Fatalf("expected rotated files, got %v", files)
	}
	out, err := store.Query(context.Background(), Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 20 {
		t.Fatalf("expected 20 entries across files, got %d", len(out))
	}
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore("file:recordlog_test.db?mode=memory&cache=shared")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	exercise(t, store)
}

func TestJSONLStore_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solves.jsonl")
	store, err := NewJSONLStore(path)
	require.NoError(t, err)
	e := entry(t, time.Now(), "random")
	require.NoError(t, store.Append(context.Background(), e))
	require.NoError(t, appendRaw(path, "{not json\n"))
	out, err := store.Query(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestEntry_JSON(t *testing.T) {
	e := entry(t, time.Unix(0, 0), "random", tu.Parcel(model.Pt(1, 1), model.Pt(2, 2)))
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"id", "timestamp", "solver", "input", "output", "duration"} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing key %s", k)
		}
	}
	if _, ok := m["error"]; ok {
		t.Errorf("error should be omitted when empty")
	}
}

func TestConfig(t *testing.T) {
	var c Config
	c.SetDefaults()
	assert.Equal(t, "none", c.Backend)
	require.NoError(t, c.Validate())
	s, err := Open(c)
	require.NoError(t, err)
	assert.Nil(t, s)

	c = Config{Backend: "sqlite"}
	c.SetDefaults()
	assert.Equal(t, "solves.db", c.Path)

	assert.Error(t, Config{Backend: "csv", Path: "x"}.Validate())
	assert.Error(t, Config{Backend: "jsonl", Path: "x", MaxSizeMB: -1}.Validate())

	s, err = Open(Config{Backend: "jsonl", Path: filepath.Join(t.TempDir(), "r.jsonl"), MaxSizeMB: 1})
	require.NoError(t, err)
	_, ok := s.(*RotatingJSONLStore)
	assert.True(t, ok)
	require.NoError(t, s.Close())
}
