package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"testing"
	"testing/fstest"
	"time"

	gamedb "github.com/jacobpatterson1549/tennis-scorer/db/game"
	"github.com/jacobpatterson1549/tennis-scorer/db/sql"
)

var testRecord = gamedb.Record{
	ID:        "g1",
	PointsA:   4,
	PointsB:   2,
	Finished:  true,
	Winner:    "A",
	Display:   "Player A : 40 / Player B : 30",
	UpdatedAt: time.Unix(1700000000, 0),
}

// scanTestRecord writes the test record into the destinations of the columns.
func scanTestRecord(dest ...interface{}) {
	*dest[0].(*string) = testRecord.ID
	*dest[1].(*int) = testRecord.PointsA
	*dest[2].(*int) = testRecord.PointsB
	*dest[3].(*bool) = testRecord.Finished
	*dest[4].(*string) = testRecord.Winner
	*dest[5].(*string) = testRecord.Display
	*dest[6].(*time.Time) = testRecord.UpdatedAt
}

func TestGameBackendSetup(t *testing.T) {
	setupTests := []struct {
		fsys      fstest.MapFS
		setupErr  error
		wantOk    bool
		wantFiles []string
	}{
		{
			fsys:     fstest.MapFS{},
			setupErr: fmt.Errorf("problem running setup"),
		},
		{
			fsys: fstest.MapFS{
				"2_b.sql":   {Data: []byte("second")},
				"1_a.sql":   {Data: []byte("first")},
				"notes.txt": {Data: []byte("ignored")},
			},
			wantOk:    true,
			wantFiles: []string{"first", "second"},
		},
	}
	for i, test := range setupTests {
		var gotFiles []string
		d := mockDatabase{
			SetupFunc: func(ctx context.Context, files []io.Reader) error {
				for _, f := range files {
					b, err := io.ReadAll(f)
					if err != nil {
						return err
					}
					gotFiles = append(gotFiles, string(b))
				}
				return test.setupErr
			},
		}
		b := GameBackend{
			Database: d,
			SetupFS:  test.fsys,
		}
		ctx := context.Background()
		err := b.Setup(ctx)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case !reflect.DeepEqual(test.wantFiles, gotFiles):
			t.Errorf("Test %v: setup files not equal:\nwanted: %q\ngot:    %q", i, test.wantFiles, gotFiles)
		}
	}
}

func TestGameBackendSetupEmbedded(t *testing.T) {
	var n int
	d := mockDatabase{
		SetupFunc: func(ctx context.Context, files []io.Reader) error {
			n = len(files)
			return nil
		},
	}
	b := GameBackend{
		Database: d,
	}
	ctx := context.Background()
	if err := b.Setup(ctx); err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	if want := 5; want != n {
		t.Errorf("wanted %v embedded setup files, got %v", want, n)
	}
}

func TestGameBackendSave(t *testing.T) {
	saveTests := []struct {
		execErr error
		wantOk  bool
	}{
		{
			execErr: fmt.Errorf("problem saving game"),
		},
		{
			wantOk: true,
		},
	}
	for i, test := range saveTests {
		d := mockDatabase{
			ExecFunc: func(ctx context.Context, queries ...sql.Query) error {
				wantCmd := "SELECT game_save($1, $2, $3, $4, $5, $6, $7)"
				wantArgs := []interface{}{"g1", 4, 2, true, "A", "Player A : 40 / Player B : 30", testRecord.UpdatedAt}
				switch {
				case len(queries) != 1:
					t.Errorf("Test %v: wanted 1 query, got %v", i, len(queries))
				case wantCmd != queries[0].Cmd():
					t.Errorf("Test %v: query commands not equal:\nwanted: %q\ngot:    %q", i, wantCmd, queries[0].Cmd())
				case !reflect.DeepEqual(wantArgs, queries[0].Args()):
					t.Errorf("Test %v: query args not equal:\nwanted: %v\ngot:    %v", i, wantArgs, queries[0].Args())
				}
				return test.execErr
			},
		}
		b := GameBackend{
			Database: d,
		}
		ctx := context.Background()
		err := b.Save(ctx, testRecord)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		}
	}
}

func TestGameBackendRead(t *testing.T) {
	readTests := []struct {
		queryErr     error
		wantNotFound bool
		wantOk       bool
	}{
		{
			queryErr:     sql.ErrNoRows,
			wantNotFound: true,
		},
		{
			queryErr: fmt.Errorf("problem reading game"),
		},
		{
			wantOk: true,
		},
	}
	for i, test := range readTests {
		d := mockDatabase{
			QueryFunc: func(ctx context.Context, q sql.Query, dest ...interface{}) error {
				wantCmd := "SELECT id, points_a, points_b, finished, winner, display, updated_at FROM game_read($1)"
				wantArgs := []interface{}{"g1"}
				switch {
				case wantCmd != q.Cmd():
					t.Errorf("Test %v: query commands not equal:\nwanted: %q\ngot:    %q", i, wantCmd, q.Cmd())
				case !reflect.DeepEqual(wantArgs, q.Args()):
					t.Errorf("Test %v: query args not equal:\nwanted: %v\ngot:    %v", i, wantArgs, q.Args())
				}
				if test.queryErr != nil {
					return test.queryErr
				}
				scanTestRecord(dest...)
				return nil
			},
		}
		b := GameBackend{
			Database: d,
		}
		ctx := context.Background()
		got, err := b.Read(ctx, "g1")
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
			if want, got := test.wantNotFound, errors.Is(err, gamedb.ErrNotFound); want != got {
				t.Errorf("Test %v: wanted not found error to be %v, got %v", i, want, err)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case testRecord != *got:
			t.Errorf("Test %v: records not equal:\nwanted: %v\ngot:    %v", i, testRecord, *got)
		}
	}
}

func TestGameBackendList(t *testing.T) {
	listTests := []struct {
		gamedb.Filter
		queryRowsErr error
		wantOk       bool
		wantArgs     []interface{}
	}{
		{
			queryRowsErr: fmt.Errorf("problem listing games"),
			wantArgs:     []interface{}{false, ""},
		},
		{
			wantOk:   true,
			wantArgs: []interface{}{false, ""},
		},
		{
			Filter:   gamedb.Filter{Finished: true, Winner: "B"},
			wantOk:   true,
			wantArgs: []interface{}{true, "B"},
		},
	}
	for i, test := range listTests {
		d := mockDatabase{
			QueryRowsFunc: func(ctx context.Context, q sql.Query, scanFunc func(s sql.Scanner) error) error {
				wantCmd := "SELECT id, points_a, points_b, finished, winner, display, updated_at FROM game_list($1, $2)"
				switch {
				case wantCmd != q.Cmd():
					t.Errorf("Test %v: query commands not equal:\nwanted: %q\ngot:    %q", i, wantCmd, q.Cmd())
				case !reflect.DeepEqual(test.wantArgs, q.Args()):
					t.Errorf("Test %v: query args not equal:\nwanted: %v\ngot:    %v", i, test.wantArgs, q.Args())
				}
				if test.queryRowsErr != nil {
					return test.queryRowsErr
				}
				s := mockScanner(func(dest ...interface{}) error {
					scanTestRecord(dest...)
					return nil
				})
				for j := 0; j < 2; j++ {
					if err := scanFunc(s); err != nil {
						return err
					}
				}
				return nil
			},
		}
		b := GameBackend{
			Database: d,
		}
		ctx := context.Background()
		got, err := b.List(ctx, test.Filter)
		want := []gamedb.Record{testRecord, testRecord}
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case !reflect.DeepEqual(want, got):
			t.Errorf("Test %v: records not equal:\nwanted: %v\ngot:    %v", i, want, got)
		}
	}
}

func TestGameBackendCount(t *testing.T) {
	countTests := []struct {
		queryErr error
		wantOk   bool
	}{
		{
			queryErr: fmt.Errorf("problem counting games"),
		},
		{
			wantOk: true,
		},
	}
	for i, test := range countTests {
		d := mockDatabase{
			QueryFunc: func(ctx context.Context, q sql.Query, dest ...interface{}) error {
				wantCmd := "SELECT total FROM game_count($1, $2)"
				wantArgs := []interface{}{true, "A"}
				switch {
				case wantCmd != q.Cmd():
					t.Errorf("Test %v: query commands not equal:\nwanted: %q\ngot:    %q", i, wantCmd, q.Cmd())
				case !reflect.DeepEqual(wantArgs, q.Args()):
					t.Errorf("Test %v: query args not equal:\nwanted: %v\ngot:    %v", i, wantArgs, q.Args())
				}
				*dest[0].(*int) = 3
				return test.queryErr
			},
		}
		b := GameBackend{
			Database: d,
		}
		ctx := context.Background()
		got, err := b.Count(ctx, gamedb.Filter{Finished: true, Winner: "A"})
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case got != 3:
			t.Errorf("Test %v: wanted count of 3, got %v", i, got)
		}
	}
}
