package seed

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pennant/internal/adapters/http/api"
	"github.com/okian/pennant/internal/adapters/repository"
	service "github.com/okian/pennant/internal/app"
	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newServer(t *testing.T) (*httptest.Server, *service.Service) {
	svc := service.New(repository.NewMemoryStore())
	mux := http.NewServeMux()
	api.NewServer(svc).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, svc
}

func TestGenerateFan(t *testing.T) {
	Convey("A generated fan ranks every team of every league once", t, func() {
		fan := generateFan(rand.New(rand.NewSource(1)), "fan-1")
		for _, l := range catalog.Leagues() {
			cat, _ := catalog.ForLeague(l)
			So(fan.Standings[string(l)], ShouldHaveLength, cat.Len())
			So(fan.Standings[string(l)], ShouldContain, cat.IDs()[0])
			for title := range fan.Titles[string(l)] {
				So(catalog.Titles().Contains(title), ShouldBeTrue)
			}
		}
	})

	Convey("The same seed gives the same fans", t, func() {
		a := generateFan(rand.New(rand.NewSource(9)), "x")
		b := generateFan(rand.New(rand.NewSource(9)), "x")
		So(a, ShouldResemble, b)
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running server", t, func() {
		srv, svc := newServer(t)
		out := filepath.Join(t.TempDir(), "out", "fans.json")
		cfg := &Config{
			BaseURL:    srv.URL,
			Fans:       12,
			Workers:    4,
			Timeout:    5 * time.Second,
			Seed:       42,
			OutputFile: out,
		}

		Convey("A run submits and verifies every fan", func() {
			stats, err := Run(context.Background(), cfg)
			So(err, ShouldBeNil)
			So(stats.FansGenerated, ShouldEqual, 12)
			So(stats.SessionsOpened, ShouldEqual, 24)
			So(stats.Submitted, ShouldEqual, 24)
			So(stats.MovesApplied, ShouldEqual, 12*12)
			So(stats.MovesRejected, ShouldEqual, 24)
			So(stats.SubmitFailed, ShouldEqual, 0)
			So(stats.Verified, ShouldEqual, 24)

			list, err := svc.Standings(context.Background(), catalog.Pacific)
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 12)
			So(svc.GetStats()["openSessions"], ShouldEqual, 0)

			data, err := os.ReadFile(out)
			So(err, ShouldBeNil)
			var fans []Fan
			So(json.Unmarshal(data, &fans), ShouldBeNil)
			So(fans, ShouldHaveLength, 12)
		})

		Convey("Zero fans is refused", func() {
			cfg.Fans = 0
			_, err := Run(context.Background(), cfg)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given nothing listening", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		Convey("The health check fails", func() {
			_, err := Run(context.Background(), &Config{BaseURL: srv.URL, Fans: 1, Timeout: time.Second})
			So(err, ShouldNotBeNil)
		})
	})
}
