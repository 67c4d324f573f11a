package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pennant/internal/adapters/repository"
	"github.com/okian/pennant/internal/config"
	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/internal/domain/model"
)

// tick is a deterministic clock that advances one second per call.
type tick struct{ t time.Time }

func newTick() *tick { return &tick{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)} }

func (c *tick) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type opener func(t *testing.T, opts ...repository.Option) repository.Store

func storeConformance(t *testing.T, name string, open opener) {
	ctx := context.Background()

	Convey("Given an empty "+name+" store", t, func() {
		clock := newTick()
		store := open(t, repository.WithClock(clock.now))
		Reset(func() { _ = store.Close() })

		key := model.Key{Owner: "alice", Season: 2026, League: catalog.Central}

		Convey("After Close every call reports ErrClosed with its kind", func() {
			So(store.Close(), ShouldBeNil)
			So(store.Close(), ShouldBeNil)

			_, err := store.FetchPrediction(ctx, key)
			So(errors.Is(err, repository.ErrFetch), ShouldBeTrue)
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)

			_, err = store.SavePrediction(ctx, model.Prediction{Key: key, Rankings: []string{"giants"}})
			So(errors.Is(err, repository.ErrSave), ShouldBeTrue)
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)

			_, err = store.ListPredictions(ctx, 2026, catalog.Central)
			So(errors.Is(err, repository.ErrFetch), ShouldBeTrue)
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)

			err = store.SaveTitlePicks(ctx, []model.TitlePick{{Owner: "alice", Season: 2026, League: catalog.Central, Title: "mvp", Player: "Okamoto"}})
			So(errors.Is(err, repository.ErrSave), ShouldBeTrue)
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)

			_, err = store.ListTitlePicks(ctx, 2026, "")
			So(errors.Is(err, repository.ErrFetch), ShouldBeTrue)
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
		})

		Convey("Fetching an absent record returns ErrNotFound", func() {
			_, err := store.FetchPrediction(ctx, key)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("A saved record can be fetched back", func() {
			saved, err := store.SavePrediction(ctx, model.Prediction{Key: key, Rankings: []string{"giants", "tigers"}})
			So(err, ShouldBeNil)
			So(saved.WrittenAt.IsZero(), ShouldBeFalse)

			got, err := store.FetchPrediction(ctx, key)
			So(err, ShouldBeNil)
			So(got.Key, ShouldResemble, key)
			So(got.Rankings, ShouldResemble, []string{"giants", "tigers"})
			So(got.WrittenAt.Equal(saved.WrittenAt), ShouldBeTrue)
		})

		Convey("Saving twice under one key replaces the record", func() {
			_, err := store.SavePrediction(ctx, model.Prediction{Key: key, Rankings: []string{"giants"}})
			So(err, ShouldBeNil)
			_, err = store.SavePrediction(ctx, model.Prediction{Key: key, Rankings: []string{"carp", "giants"}})
			So(err, ShouldBeNil)

			list, err := store.ListPredictions(ctx, 2026, catalog.Central)
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 1)
			So(list[0].Rankings, ShouldResemble, []string{"carp", "giants"})
		})

		Convey("Saving with an incomplete key wraps ErrSave", func() {
			_, err := store.SavePrediction(ctx, model.Prediction{Key: model.Key{Season: 2026, League: catalog.Central}})
			So(errors.Is(err, repository.ErrSave), ShouldBeTrue)
			So(errors.Is(err, model.ErrInvalidKey), ShouldBeTrue)
		})

		Convey("Listing is scoped by season and league, newest first", func() {
			for _, owner := range []string{"alice", "bob", "carol"} {
				_, err := store.SavePrediction(ctx, model.Prediction{
					Key:      model.Key{Owner: owner, Season: 2026, League: catalog.Central},
					Rankings: []string{"giants"},
				})
				So(err, ShouldBeNil)
			}
			_, err := store.SavePrediction(ctx, model.Prediction{
				Key:      model.Key{Owner: "dave", Season: 2026, League: catalog.Pacific},
				Rankings: []string{"hawks"},
			})
			So(err, ShouldBeNil)
			_, err = store.SavePrediction(ctx, model.Prediction{
				Key:      model.Key{Owner: "erin", Season: 2025, League: catalog.Central},
				Rankings: []string{"giants"},
			})
			So(err, ShouldBeNil)

			list, err := store.ListPredictions(ctx, 2026, catalog.Central)
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 3)
			So(list[0].Owner, ShouldEqual, "carol")
			So(list[1].Owner, ShouldEqual, "bob")
			So(list[2].Owner, ShouldEqual, "alice")
		})

		Convey("Title picks upsert per title and filter by owner", func() {
			err := store.SaveTitlePicks(ctx, []model.TitlePick{
				{Owner: "alice", Season: 2026, League: catalog.Central, Title: "mvp", Player: "Okamoto"},
				{Owner: "alice", Season: 2026, League: catalog.Pacific, Title: "mvp", Player: "Kondo"},
			})
			So(err, ShouldBeNil)
			err = store.SaveTitlePicks(ctx, []model.TitlePick{
				{Owner: "alice", Season: 2026, League: catalog.Central, Title: "mvp", Player: "Murakami"},
				{Owner: "bob", Season: 2026, League: catalog.Central, Title: "home_runs", Player: "Sato"},
			})
			So(err, ShouldBeNil)

			mine, err := store.ListTitlePicks(ctx, 2026, "alice")
			So(err, ShouldBeNil)
			So(mine, ShouldHaveLength, 2)
			players := map[catalog.League]string{}
			for _, p := range mine {
				players[p.League] = p.Player
			}
			So(players[catalog.Central], ShouldEqual, "Murakami")
			So(players[catalog.Pacific], ShouldEqual, "Kondo")

			all, err := store.ListTitlePicks(ctx, 2026, "")
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, 3)
			So(all[0].Owner, ShouldEqual, "alice")
			So(all[0].League, ShouldEqual, catalog.Pacific)

			none, err := store.ListTitlePicks(ctx, 2025, "")
			So(err, ShouldBeNil)
			So(none, ShouldBeEmpty)
		})
	})
}

func TestMemoryStore(t *testing.T) {
	storeConformance(t, "memory", func(_ *testing.T, opts ...repository.Option) repository.Store {
		return repository.NewMemoryStore(opts...)
	})

	Convey("Given a closed memory store", t, func() {
		store := repository.NewMemoryStore()
		So(store.Close(), ShouldBeNil)

		Convey("Reads and writes fail", func() {
			_, err := store.FetchPrediction(context.Background(), model.Key{Owner: "a", Season: 1, League: catalog.Central})
			So(errors.Is(err, repository.ErrFetch), ShouldBeTrue)
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)

			_, err = store.SavePrediction(context.Background(), model.Prediction{Key: model.Key{Owner: "a", Season: 1, League: catalog.Central}})
			So(errors.Is(err, repository.ErrSave), ShouldBeTrue)
		})
	})

	Convey("Given a memory store holding a record", t, func() {
		store := repository.NewMemoryStore()
		key := model.Key{Owner: "a", Season: 1, League: catalog.Central}
		rankings := []string{"giants"}
		_, err := store.SavePrediction(context.Background(), model.Prediction{Key: key, Rankings: rankings})
		So(err, ShouldBeNil)

		Convey("Mutating the caller's slice does not change the stored copy", func() {
			rankings[0] = "tigers"
			got, err := store.FetchPrediction(context.Background(), key)
			So(err, ShouldBeNil)
			So(got.Rankings, ShouldResemble, []string{"giants"})
		})
	})
}

func TestSQLiteStore(t *testing.T) {
	storeConformance(t, "sqlite", func(t *testing.T, opts ...repository.Option) repository.Store {
		path := filepath.Join(t.TempDir(), "pennant.db")
		store, err := repository.OpenSQLite(context.Background(), path, opts...)
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		return store
	})

	Convey("Given a sqlite file reopened after a write", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "reopen.db")
		key := model.Key{Owner: "alice", Season: 2026, League: catalog.Pacific}

		first, err := repository.OpenSQLite(ctx, path)
		So(err, ShouldBeNil)
		_, err = first.SavePrediction(ctx, model.Prediction{Key: key, Rankings: []string{"hawks", "lions"}})
		So(err, ShouldBeNil)
		So(first.Close(), ShouldBeNil)

		second, err := repository.OpenSQLite(ctx, path)
		So(err, ShouldBeNil)
		Reset(func() { _ = second.Close() })

		Convey("The record survives", func() {
			got, err := second.FetchPrediction(ctx, key)
			So(err, ShouldBeNil)
			So(got.Rankings, ShouldResemble, []string{"hawks", "lions"})
			So(second.Driver(), ShouldEqual, "sqlite")
		})
	})

	Convey("Given a closed sqlite store", t, func() {
		store, err := repository.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "closed.db"))
		So(err, ShouldBeNil)
		So(store.Close(), ShouldBeNil)

		Convey("Fetch wraps ErrFetch rather than reporting not found", func() {
			_, err := store.FetchPrediction(context.Background(), model.Key{Owner: "a", Season: 1, League: catalog.Central})
			So(errors.Is(err, repository.ErrFetch), ShouldBeTrue)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeFalse)
		})
	})
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("PENNANT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PENNANT_TEST_POSTGRES_DSN not set")
	}
	storeConformance(t, "postgres", func(t *testing.T, opts ...repository.Option) repository.Store {
		store, err := repository.OpenPostgres(context.Background(), dsn, opts...)
		if err != nil {
			t.Fatalf("open postgres: %v", err)
		}
		if _, err := store.DB().Exec("TRUNCATE predictions, title_predictions"); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return store
	})
}

func TestOpen(t *testing.T) {
	Convey("Open selects a driver from config", t, func() {
		ctx := context.Background()

		Convey("memory", func() {
			store, err := repository.Open(ctx, config.StoreConfig{Driver: config.DriverMemory})
			So(err, ShouldBeNil)
			So(store.Driver(), ShouldEqual, "memory")
		})

		Convey("sqlite", func() {
			store, err := repository.Open(ctx, config.StoreConfig{
				Driver:     "SQLite",
				SQLitePath: filepath.Join(t.TempDir(), "open.db"),
			})
			So(err, ShouldBeNil)
			So(store.Driver(), ShouldEqual, "sqlite")
			So(store.Close(), ShouldBeNil)
		})

		Convey("unknown", func() {
			_, err := repository.Open(ctx, config.StoreConfig{Driver: "mongo"})
			So(errors.Is(err, repository.ErrUnknownDriver), ShouldBeTrue)
		})
	})
}
