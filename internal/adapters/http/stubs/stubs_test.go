package stubs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"
)

func serve(h http.Handler, method, target string, header http.Header) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestStubRoutes(t *testing.T) {
	Convey("Given the stub routes", t, func() {
		mux := http.NewServeMux()
		New().Register(context.Background(), mux)

		Convey("Sessions list is empty", func() {
			w, _ := serve(mux, http.MethodGet, "/sessions", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
		})

		Convey("Creating a session returns a uuid", func() {
			w, body := serve(mux, http.MethodPost, "/sessions", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			_, err := uuid.Parse(body["id"].(string))
			So(err, ShouldBeNil)
		})

		Convey("Matching recommendations are empty", func() {
			w, _ := serve(mux, http.MethodGet, "/matching/recommendations", nil)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
		})

		Convey("Likes echo the id", func() {
			_, body := serve(mux, http.MethodPost, "/matching/like/u42", nil)
			So(body["ok"], ShouldEqual, true)
			So(body["id"], ShouldEqual, "u42")
		})

		Convey("Nearby echoes coordinates", func() {
			w, body := serve(mux, http.MethodGet, "/locations/nearby?lat=37.4&lng=-122.1", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(body["lat"], ShouldEqual, 37.4)
			So(body["lng"], ShouldEqual, -122.1)
			So(body["results"], ShouldBeEmpty)
		})

		Convey("Check-in echoes coordinates", func() {
			_, body := serve(mux, http.MethodPost, "/locations/check-in?lat=1&lng=2", nil)
			So(body["ok"], ShouldEqual, true)
			So(body["lat"], ShouldEqual, 1.0)
		})

		Convey("Bad coordinates are rejected", func() {
			w, body := serve(mux, http.MethodGet, "/locations/nearby?lat=x&lng=1", nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "bad_request")
		})

		Convey("Wrong methods are not served", func() {
			w, _ := serve(mux, http.MethodDelete, "/sessions", nil)
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestAuth(t *testing.T) {
	Convey("Given a stub auth handler with a fixed clock", t, func() {
		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		h := New(WithSecret("s3cret"), WithTTL(time.Minute), WithClock(func() time.Time { return now }))
		mux := http.NewServeMux()
		h.Register(context.Background(), mux)

		Convey("When logging in", func() {
			w, body := serve(mux, http.MethodPost, "/auth/login?email=ada@example.com&password=x", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			token, _ := body["token"].(string)
			So(token, ShouldNotBeEmpty)
			So(body["user"].(map[string]any)["email"], ShouldEqual, "ada@example.com")

			Convey("Then /auth/me resolves the bearer token", func() {
				_, me := serve(mux, http.MethodGet, "/auth/me", http.Header{"Authorization": {"Bearer " + token}})
				So(me["email"], ShouldEqual, "ada@example.com")
			})

			Convey("Then the token expires after the ttl", func() {
				now = now.Add(2 * time.Minute)
				_, err := h.ParseToken(token)
				So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
			})

			Convey("Then another secret rejects it", func() {
				_, err := New(WithSecret("other"), WithClock(func() time.Time { return now })).ParseToken(token)
				So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
			})
		})

		Convey("Login requires both parameters", func() {
			w, _ := serve(mux, http.MethodPost, "/auth/login?email=ada@example.com", nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Without a token /auth/me is the demo user", func() {
			_, me := serve(mux, http.MethodGet, "/auth/me", nil)
			So(me["email"], ShouldEqual, DemoEmail)
			_, me = serve(mux, http.MethodGet, "/auth/me", http.Header{"Authorization": {"Bearer garbage"}})
			So(me["email"], ShouldEqual, DemoEmail)
		})
	})
}

func TestWebSocket(t *testing.T) {
	Convey("Given a server with the realtime route", t, func() {
		mux := http.NewServeMux()
		New().Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("When a client connects", func() {
			url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
			conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
			So(err, ShouldBeNil)
			defer conn.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusSwitchingProtocols)

			Convey("Then it receives hello and a normal close", func() {
				var msg map[string]string
				So(conn.ReadJSON(&msg), ShouldBeNil)
				So(msg["hello"], ShouldEqual, "world")

				_, _, err := conn.ReadMessage()
				So(websocket.IsCloseError(err, websocket.CloseNormalClosure), ShouldBeTrue)
			})
		})
	})
}
