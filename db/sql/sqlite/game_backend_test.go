package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/jacobpatterson1549/tennis-scorer/db"
	gamedb "github.com/jacobpatterson1549/tennis-scorer/db/game"
	"github.com/jacobpatterson1549/tennis-scorer/game"
)

// newTestBackend creates a backend on a new database file that is removed after the test.
func newTestBackend(t *testing.T) *GameBackend {
	t.Helper()
	path := filepath.Join(t.TempDir(), "games.db")
	cfg := db.Config{
		QueryPeriod: 10 * time.Second,
	}
	b, err := Open(path, cfg)
	if err != nil {
		t.Fatalf("unwanted error opening: %v", err)
	}
	t.Cleanup(func() {
		b.Close()
	})
	ctx := context.Background()
	if err := b.Setup(ctx); err != nil {
		t.Fatalf("unwanted error setting up: %v", err)
	}
	return b
}

func TestOpen(t *testing.T) {
	cfg := db.Config{
		QueryPeriod: time.Second,
	}
	openTests := []struct {
		path   string
		cfg    db.Config
		wantOk bool
	}{
		{
			cfg: cfg,
		},
		{
			path: "  ",
			cfg:  cfg,
		},
		{
			path: filepath.Join(t.TempDir(), "games.db"),
		},
		{
			path:   filepath.Join(t.TempDir(), "games.db"),
			cfg:    cfg,
			wantOk: true,
		},
	}
	for i, test := range openTests {
		b, err := Open(test.path, test.cfg)
		switch {
		case err != nil:
			if test.wantOk {
				t.Errorf("Test %v: unwanted error: %v", i, err)
			}
		case !test.wantOk:
			t.Errorf("Test %v: wanted error", i)
		default:
			b.Close()
		}
	}
}

func TestGameBackendSetupTwice(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()
	if err := b.Setup(ctx); err != nil {
		t.Errorf("wanted setup to be repeatable, got %v", err)
	}
}

func TestGameBackendSaveRead(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()
	if _, err := b.Read(ctx, "g1"); !errors.Is(err, gamedb.ErrNotFound) {
		t.Errorf("wanted not found error before save, got %v", err)
	}
	updatedAt := time.UnixMilli(1700000000123).UTC()
	r1 := gamedb.Record{
		ID:        "g1",
		PointsA:   3,
		PointsB:   3,
		Display:   "Player A : Deuce / Player B : Deuce",
		UpdatedAt: updatedAt,
	}
	r2 := gamedb.Record{
		ID:        "g1",
		PointsA:   5,
		PointsB:   3,
		Finished:  true,
		Winner:    "A",
		Display:   "Player A : 40 / Player B : 40",
		UpdatedAt: updatedAt.Add(time.Second),
	}
	for i, want := range []gamedb.Record{r1, r2} {
		if err := b.Save(ctx, want); err != nil {
			t.Fatalf("Test %v: unwanted error saving: %v", i, err)
		}
		got, err := b.Read(ctx, want.ID)
		switch {
		case err != nil:
			t.Errorf("Test %v: unwanted error reading: %v", i, err)
		case !reflect.DeepEqual(want, *got):
			t.Errorf("Test %v: records not equal:\nwanted: %v\ngot:    %v", i, want, *got)
		}
	}
	n, err := b.Count(ctx, gamedb.Filter{})
	switch {
	case err != nil:
		t.Errorf("unwanted error counting: %v", err)
	case n != 1:
		t.Errorf("wanted saving the same game to replace it, got %v games", n)
	}
}

func TestGameBackendListCount(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()
	t0 := time.UnixMilli(1700000000000).UTC()
	records := []gamedb.Record{
		{ID: "g1", PointsA: 1, Display: "Player A : 15 / Player B : 0", UpdatedAt: t0},
		{ID: "g2", PointsA: 4, Finished: true, Winner: "A", Display: "Player A : 40 / Player B : 0", UpdatedAt: t0.Add(time.Second)},
		{ID: "g3", PointsB: 4, Finished: true, Winner: "B", Display: "Player A : 0 / Player B : 40", UpdatedAt: t0.Add(2 * time.Second)},
		{ID: "g4", PointsA: 4, PointsB: 1, Finished: true, Winner: "A", Display: "Player A : 40 / Player B : 15", UpdatedAt: t0.Add(2 * time.Second)},
	}
	for i, r := range records {
		if err := b.Save(ctx, r); err != nil {
			t.Fatalf("Test %v: unwanted error saving: %v", i, err)
		}
	}
	listTests := []struct {
		gamedb.Filter
		wantIDs []string
	}{
		{
			wantIDs: []string{"g3", "g4", "g2", "g1"},
		},
		{
			Filter:  gamedb.Filter{Finished: true},
			wantIDs: []string{"g3", "g4", "g2"},
		},
		{
			Filter:  gamedb.Filter{Finished: true, Winner: "A"},
			wantIDs: []string{"g4", "g2"},
		},
		{
			Filter:  gamedb.Filter{Finished: true, Winner: "B"},
			wantIDs: []string{"g3"},
		},
	}
	for i, test := range listTests {
		got, err := b.List(ctx, test.Filter)
		if err != nil {
			t.Errorf("Test %v: unwanted error listing: %v", i, err)
			continue
		}
		gotIDs := make([]string, len(got))
		for j, r := range got {
			gotIDs[j] = r.ID
		}
		if !reflect.DeepEqual(test.wantIDs, gotIDs) {
			t.Errorf("Test %v: ids not equal:\nwanted: %v\ngot:    %v", i, test.wantIDs, gotIDs)
		}
		n, err := b.Count(ctx, test.Filter)
		switch {
		case err != nil:
			t.Errorf("Test %v: unwanted error counting: %v", i, err)
		case n != len(test.wantIDs):
			t.Errorf("Test %v: wanted count of %v, got %v", i, len(test.wantIDs), n)
		}
	}
}

func TestGameBackendWithDao(t *testing.T) {
	b := newTestBackend(t)
	timeFunc := func() time.Time {
		return time.UnixMilli(1700000000000)
	}
	d, err := gamedb.NewDao(b, timeFunc)
	if err != nil {
		t.Fatalf("unwanted error creating dao: %v", err)
	}
	ctx := context.Background()
	s := game.NewState("g1")
	for _, side := range []game.Side{game.B, game.B, game.A, game.B, game.B} {
		s = s.AddPoint(side)
		if err := d.Save(ctx, s); err != nil {
			t.Fatalf("unwanted error saving: %v", err)
		}
	}
	got, err := d.Read(ctx, "g1")
	switch {
	case err != nil:
		t.Errorf("unwanted error reading: %v", err)
	case s != *got:
		t.Errorf("states not equal:\nwanted: %v\ngot:    %v", s, *got)
	}
	n, err := d.CountByWinner(ctx, game.B)
	switch {
	case err != nil:
		t.Errorf("unwanted error counting: %v", err)
	case n != 1:
		t.Errorf("wanted 1 game won by B, got %v", n)
	}
}
