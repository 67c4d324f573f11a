package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pennant/internal/adapters/http/api"
	"github.com/okian/pennant/internal/adapters/repository"
	service "github.com/okian/pennant/internal/app"
	"github.com/okian/pennant/internal/domain/model"
	"github.com/okian/pennant/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// brokenStore fails every write.
type brokenStore struct {
	*repository.MemoryStore
}

func (brokenStore) SavePrediction(context.Context, model.Prediction) (model.Prediction, error) {
	return model.Prediction{}, errors.Join(repository.ErrSave, errors.New("read-only replica"))
}

func newMux(store repository.Store, opts ...service.Option) *http.ServeMux {
	svc := service.New(store, opts...)
	mux := http.NewServeMux()
	api.NewServer(svc).Register(mux)
	return mux
}

func do(mux *http.ServeMux, method, path, owner, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if owner != "" {
		req.Header.Set(api.OwnerHeader, owner)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

func openSession(mux *http.ServeMux, owner, league string) api.SessionView {
	w := do(mux, http.MethodPost, "/sessions", owner, `{"league":"`+league+`"}`)
	So(w.Code, ShouldEqual, http.StatusCreated)
	return decode[api.SessionView](w)
}

func move(mux *http.ServeMux, id, owner, body string) api.MoveResult {
	w := do(mux, http.MethodPost, "/sessions/"+id+"/moves", owner, body)
	So(w.Code, ShouldEqual, http.StatusOK)
	return decode[api.MoveResult](w)
}

func fillCentral(mux *http.ServeMux, id, owner string) {
	for i, team := range []string{"giants", "tigers", "carp", "baystars", "swallows", "dragons"} {
		res := move(mux, id, owner, `{"item_id":"`+team+`","rank":`+string(rune('1'+i))+`}`)
		So(res.Applied, ShouldBeTrue)
	}
}

func errorCode(w *httptest.ResponseRecorder) string {
	var body struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Code
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(repository.NewMemoryStore())

		Convey("Health responds with JSON", func() {
			w := do(mux, http.MethodGet, "/healthz", "", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"ok"`)
		})

		Convey("Metrics are exposed", func() {
			_ = do(mux, http.MethodGet, "/healthz", "", "")
			w := do(mux, http.MethodGet, "/metrics", "", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "pennant_")
		})

		Convey("Stats are served", func() {
			w := do(mux, http.MethodGet, "/stats", "", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			stats := decode[map[string]any](w)
			So(stats["store"], ShouldEqual, "memory")
		})

		Convey("A catalog is listed by league", func() {
			w := do(mux, http.MethodGet, "/catalog/Pacific", "", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode[struct {
				League string `json:"league"`
				Items  []struct {
					ID string `json:"id"`
				} `json:"items"`
			}](w)
			So(body.League, ShouldEqual, "pacific")
			So(body.Items, ShouldHaveLength, 6)
			So(body.Items[0].ID, ShouldEqual, "hawks")
		})

		Convey("An unknown catalog is 404", func() {
			w := do(mux, http.MethodGet, "/catalog/minors", "", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Unregistered paths are 404", func() {
			w := do(mux, http.MethodGet, "/leaderboard", "", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Wrong methods are refused", func() {
			w := do(mux, http.MethodDelete, "/predictions", "", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestSessions(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(repository.NewMemoryStore())

		Convey("Opening without a user id is 401", func() {
			w := do(mux, http.MethodPost, "/sessions", "", `{"league":"central"}`)
			So(w.Code, ShouldEqual, http.StatusUnauthorized)
			So(errorCode(w), ShouldEqual, "unauthenticated")
		})

		Convey("Opening with a bad body or league is 400", func() {
			So(do(mux, http.MethodPost, "/sessions", "alice", `{`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/sessions", "alice", `{"league":"minors"}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Given an open session", func() {
			view := openSession(mux, "alice", "central")
			So(view.Pool, ShouldHaveLength, 6)
			id := view.ID

			Convey("It can be fetched by its owner only", func() {
				So(do(mux, http.MethodGet, "/sessions/"+id, "alice", "").Code, ShouldEqual, http.StatusOK)
				So(do(mux, http.MethodGet, "/sessions/"+id, "bob", "").Code, ShouldEqual, http.StatusNotFound)
				So(do(mux, http.MethodGet, "/sessions/"+id, "", "").Code, ShouldEqual, http.StatusUnauthorized)
			})

			Convey("Moves place, reject and return items", func() {
				res := move(mux, id, "alice", `{"item_id":"carp","rank":1}`)
				So(res.Applied, ShouldBeTrue)

				res = move(mux, id, "alice", `{"item_id":"giants","rank":1}`)
				So(res.Applied, ShouldBeFalse)
				So(res.Reason, ShouldNotBeEmpty)

				res = move(mux, id, "alice", `{"item_id":"carp","rank":0}`)
				So(res.Applied, ShouldBeTrue)
				So(res.Session.Pool, ShouldHaveLength, 6)

				res = move(mux, id, "alice", `{"item_id":"carp","rank":3}`)
				So(res.Applied, ShouldBeTrue)
				res = move(mux, id, "alice", `{"item_id":"carp","rank":5,"pool":true}`)
				So(res.Applied, ShouldBeTrue)
				So(res.Session.Pool, ShouldHaveLength, 6)
			})

			Convey("A move without item_id is 400", func() {
				w := do(mux, http.MethodPost, "/sessions/"+id+"/moves", "alice", `{"rank":1}`)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Submitting an incomplete board is 409", func() {
				w := do(mux, http.MethodPost, "/sessions/"+id+"/submit", "alice", "")
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(errorCode(w), ShouldEqual, "incomplete_assignment")
			})

			Convey("A complete board submits and shows up in the public list", func() {
				fillCentral(mux, id, "alice")
				w := do(mux, http.MethodPost, "/sessions/"+id+"/submit", "alice", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[api.SessionView](w).SubmittedAt, ShouldNotBeNil)

				w = do(mux, http.MethodGet, "/predictions?league=central", "", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode[struct {
					Season  int                  `json:"season"`
					Entries []api.StandingsEntry `json:"entries"`
				}](w)
				So(body.Season, ShouldEqual, 2026)
				So(body.Entries, ShouldHaveLength, 1)
				So(body.Entries[0].Owner, ShouldEqual, "alice")
				So(body.Entries[0].Rankings[0], ShouldEqual, "giants")
			})

			Convey("Closing removes the session", func() {
				So(do(mux, http.MethodDelete, "/sessions/"+id, "alice", "").Code, ShouldEqual, http.StatusNoContent)
				So(do(mux, http.MethodGet, "/sessions/"+id, "alice", "").Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given a store that rejects writes", t, func() {
		mux := newMux(brokenStore{repository.NewMemoryStore()})
		view := openSession(mux, "alice", "central")
		fillCentral(mux, view.ID, "alice")

		Convey("Submit is 502 and the board is kept", func() {
			w := do(mux, http.MethodPost, "/sessions/"+view.ID+"/submit", "alice", "")
			So(w.Code, ShouldEqual, http.StatusBadGateway)
			So(errorCode(w), ShouldEqual, "store_error")

			w = do(mux, http.MethodGet, "/sessions/"+view.ID, "alice", "")
			So(decode[api.SessionView](w).Complete, ShouldBeTrue)
		})
	})
}

func TestPredictionsAndTitles(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(repository.NewMemoryStore())

		Convey("The public list needs a valid league", func() {
			So(do(mux, http.MethodGet, "/predictions", "", "").Code, ShouldEqual, http.StatusBadRequest)
			w := do(mux, http.MethodGet, "/predictions?league=pacific", "", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"entries":[]`)
		})

		Convey("An anonymous sheet read is 401", func() {
			So(do(mux, http.MethodGet, "/titles/me", "", "").Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("An empty sheet is refused", func() {
			w := do(mux, http.MethodPut, "/titles/me", "alice", `{"central":{"mvp":"  "}}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Unknown titles and leagues are refused", func() {
			So(do(mux, http.MethodPut, "/titles/me", "alice", `{"central":{"best_mascot":"x"}}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPut, "/titles/me", "alice", `{"minors":{"mvp":"x"}}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Saved picks are returned and listed", func() {
			w := do(mux, http.MethodPut, "/titles/me", "alice", `{"central":{"mvp":"Okamoto"},"pacific":{"mvp":"Kondo"}}`)
			So(w.Code, ShouldEqual, http.StatusOK)

			w = do(mux, http.MethodGet, "/titles/me", "alice", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			sheet := decode[map[string]map[string]string](w)
			So(sheet["central"]["mvp"], ShouldEqual, "Okamoto")
			So(sheet["pacific"]["mvp"], ShouldEqual, "Kondo")

			w = do(mux, http.MethodGet, "/titles", "", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"owner":"alice"`)
		})

		Convey("Public lists over a closed store are 502", func() {
			closed := repository.NewMemoryStore()
			So(closed.Close(), ShouldBeNil)
			mux := newMux(closed)

			w := do(mux, http.MethodGet, "/predictions?league=central", "", "")
			So(w.Code, ShouldEqual, http.StatusBadGateway)
			So(errorCode(w), ShouldEqual, "store_error")
			So(do(mux, http.MethodGet, "/titles", "", "").Code, ShouldEqual, http.StatusBadGateway)
		})

		Convey("Archive without a bucket is unavailable", func() {
			w := do(mux, http.MethodPost, "/archive", "", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(errorCode(w), ShouldEqual, "archive_disabled")
		})
	})
}
