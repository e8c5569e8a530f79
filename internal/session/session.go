// Package session implements the streaming session (spec.md §4.F): it
// binds one cycle-detector run to a single long-lived websocket connection,
// encoding progress/final/error frames and enforcing the close-code policy
// of spec.md §6.
package session

import (
	"context"
	"log"
	"regexp"
	"strconv"

	"gameoflife/internal/apierr"
	"gameoflife/internal/cellgrid"
	"gameoflife/internal/cycle"
	"gameoflife/internal/store"
	"gameoflife/internal/wsconn"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

var boardIDPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// BoardLoader is the narrow slice of the board repository a session needs:
// enough to load a record by id, nothing about caching or creation.
type BoardLoader interface {
	GetBoardByID(ctx context.Context, boardID string) (store.BoardRecord, error)
}

// Run drives one streaming session end to end over socket: parameter
// validation, board load, the cycle-detector run, and the close sequence.
// It never returns an error; every failure path is terminated by writing
// the appropriate frame and closing the socket with the matching code,
// exactly as spec.md §4.F prescribes. maxAttemptsCeiling bounds the
// maxAttempts query parameter the same way it bounds the REST
// initiate-final body, so the websocket path can't be used to bypass it.
func Run(ctx context.Context, socket *wsconn.Socket, loader BoardLoader, boardIDRaw, maxAttemptsRaw string, maxAttemptsCeiling int) {
	boardID, maxAttempts, ok := parseParams(boardIDRaw, maxAttemptsRaw, maxAttemptsCeiling)
	if !ok {
		writeError(ctx, socket, "invalid boardId or maxAttempts")
		socket.Close(ClosePolicyViolation, "invalid parameters")
		return
	}

	record, err := loader.GetBoardByID(ctx, boardID)
	if err != nil {
		if apierr.KindOf(err) == apierr.NotFound {
			writeError(ctx, socket, "Board not found")
			socket.Close(ClosePolicyViolation, "board not found")
			return
		}
		writeError(ctx, socket, "backend error loading board")
		socket.Close(CloseInternalError, "backend error")
		return
	}

	board := cellgrid.FromSparse(record.LiveCells, cellgrid.Dimensions{Rows: record.Rows, Cols: record.Cols})

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return watchForClientClose(groupCtx, socket)
	})

	group.Go(func() error {
		return runDetector(groupCtx, socket, board, maxAttempts)
	})

	_ = group.Wait()
}

// parseParams validates boardId as a UUID and maxAttempts as an integer
// within spec.md §6's bounds, bounded above by maxAttemptsCeiling.
func parseParams(boardIDRaw, maxAttemptsRaw string, maxAttemptsCeiling int) (string, int, bool) {
	if !boardIDPattern.MatchString(boardIDRaw) {
		return "", 0, false
	}
	maxAttempts, err := strconv.Atoi(maxAttemptsRaw)
	if err != nil || maxAttempts < 1 || maxAttempts > maxAttemptsCeiling {
		return "", 0, false
	}
	return boardIDRaw, maxAttempts, true
}

// watchForClientClose blocks reading from the socket until the client
// disconnects or sends a close frame, then cancels the group so the
// publish side stops writing. This is the required read pump: gorilla's
// ping/pong control-frame handlers are only invoked from within a Read.
func watchForClientClose(ctx context.Context, socket *wsconn.Socket) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		err := socket.Read(ctx, func(ws *websocket.Conn) error {
			_, _, readErr := ws.ReadMessage()
			return readErr
		})
		if err != nil {
			if wsconn.IsUnexpectedClose(err) {
				log.Printf("session: unexpected close for board: %v", err)
			}
			return err
		}
	}
}

// runDetector executes the cycle detector to completion and writes the
// resulting frames. The detector is not cooperatively cancelled when the
// client disconnects mid-run; its remaining progress writes simply become
// no-ops because socket.Write observes ctx.Done() first.
func runDetector(ctx context.Context, socket *wsconn.Socket, board cellgrid.Board, maxAttempts int) error {
	result, err := cycle.Run(board, maxAttempts, func(generation int, state [][]int) {
		writeProgress(ctx, socket, generation, state)
	})
	if err != nil {
		writeError(ctx, socket, err.Error())
		socket.Close(CloseInternalError, "compute error")
		return err
	}

	writeFinal(ctx, socket, result)
	socket.Close(CloseNormal, "Calculation complete")
	return nil
}

func writeProgress(ctx context.Context, socket *wsconn.Socket, generation int, state [][]int) {
	_ = socket.Write(ctx, func(ws *websocket.Conn) error {
		return ws.WriteJSON(progressFrame{Type: frameProgress, Generation: generation, State: state})
	})
}

func writeFinal(ctx context.Context, socket *wsconn.Socket, result cycle.Result) {
	frame := finalFrame{
		Type:       frameFinal,
		Status:     statusName(result.Status),
		Generation: result.Generation,
		State:      result.State,
	}
	if result.Status == cycle.Oscillating {
		frame.Period = result.Period
	}
	_ = socket.Write(ctx, func(ws *websocket.Conn) error {
		return ws.WriteJSON(frame)
	})
}

func writeError(ctx context.Context, socket *wsconn.Socket, message string) {
	_ = socket.Write(ctx, func(ws *websocket.Conn) error {
		return ws.WriteJSON(errorFrame{Type: frameError, Error: message})
	})
}

func statusName(s cycle.Status) string {
	switch s {
	case cycle.Stable:
		return "stable"
	case cycle.Oscillating:
		return "oscillating"
	case cycle.Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}
