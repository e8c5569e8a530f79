package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gameoflife/internal/apierr"
	"gameoflife/internal/store"
	"gameoflife/internal/wsconn"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeLoader struct {
	record store.BoardRecord
	err    error
}

func (f fakeLoader) GetBoardByID(_ context.Context, _ string) (store.BoardRecord, error) {
	return f.record, f.err
}

var upgrader = websocket.Upgrader{}

const testMaxAttemptsCeiling = 100000

func newTestServer(loader BoardLoader, boardID, maxAttempts string) *httptest.Server {
	return newTestServerWithCeiling(loader, boardID, maxAttempts, testMaxAttemptsCeiling)
}

func newTestServerWithCeiling(loader BoardLoader, boardID, maxAttempts string, ceiling int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		socket := wsconn.New(conn)
		Run(r.Context(), socket, loader, boardID, maxAttempts, ceiling)
	}))
}

func dial(server *httptest.Server) (*websocket.Conn, error) {
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	return conn, err
}

func readFrames(conn *websocket.Conn, timeout time.Duration) []map[string]interface{} {
	var frames []map[string]interface{}
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	for {
		var frame map[string]interface{}
		if err := conn.ReadJSON(&frame); err != nil {
			break
		}
		frames = append(frames, frame)
	}
	return frames
}

func stillLifeRecord() store.BoardRecord {
	return store.BoardRecord{
		LiveCells: [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}},
		Rows:      4,
		Cols:      4,
	}
}

func TestSessionInvalidParameters(t *testing.T) {
	Convey("Given a malformed boardId", t, func() {
		server := newTestServer(fakeLoader{}, "not-a-uuid", "10")
		defer server.Close()

		conn, err := dial(server)
		So(err, ShouldBeNil)
		defer conn.Close()

		Convey("The session's first frame is an error frame", func() {
			frames := readFrames(conn, 2*time.Second)
			So(len(frames), ShouldBeGreaterThan, 0)
			So(frames[0]["type"], ShouldEqual, "error")
		})
	})
}

func TestSessionBoardNotFound(t *testing.T) {
	Convey("Given a well-formed boardId the loader cannot find", t, func() {
		loader := fakeLoader{err: apierr.New(apierr.NotFound, "board missing")}
		server := newTestServer(loader, "11111111-1111-1111-1111-111111111111", "10")
		defer server.Close()

		conn, err := dial(server)
		So(err, ShouldBeNil)
		defer conn.Close()

		Convey("The session emits 'Board not found' and closes", func() {
			frames := readFrames(conn, 2*time.Second)
			So(len(frames), ShouldBeGreaterThan, 0)
			So(frames[0]["type"], ShouldEqual, "error")
			So(frames[0]["error"], ShouldEqual, "Board not found")
		})
	})
}

func TestSessionRejectsMaxAttemptsAboveCeiling(t *testing.T) {
	Convey("Given a maxAttempts above the configured ceiling", t, func() {
		server := newTestServerWithCeiling(fakeLoader{}, "11111111-1111-1111-1111-111111111111", "99999", 1000)
		defer server.Close()

		conn, err := dial(server)
		So(err, ShouldBeNil)
		defer conn.Close()

		Convey("The session's first frame is an error frame", func() {
			frames := readFrames(conn, 2*time.Second)
			So(len(frames), ShouldBeGreaterThan, 0)
			So(frames[0]["type"], ShouldEqual, "error")
		})
	})
}

func TestSessionStillLifeCompletes(t *testing.T) {
	Convey("Given a still-life board", t, func() {
		loader := fakeLoader{record: stillLifeRecord()}
		server := newTestServer(loader, "11111111-1111-1111-1111-111111111111", "10")
		defer server.Close()

		conn, err := dial(server)
		So(err, ShouldBeNil)
		defer conn.Close()

		Convey("The session streams progress and a stable final frame as the last message", func() {
			frames := readFrames(conn, 2*time.Second)
			So(len(frames), ShouldBeGreaterThan, 0)

			last := frames[len(frames)-1]
			So(last["type"], ShouldEqual, "final")
			So(last["status"], ShouldEqual, "stable")
			So(last["generation"], ShouldEqual, float64(0))
		})
	})
}
