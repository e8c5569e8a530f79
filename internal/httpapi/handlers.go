// Package httpapi is the ambient HTTP entrypoint layer: it exposes the four
// REST endpoints and the websocket upgrade path of spec.md §6, translating
// repository/detector results into the response envelopes of §6/§7. Deep
// request validation, auth, and rate limiting are explicitly out of scope
// (spec.md §1) and are not implemented here.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"gameoflife/internal/apierr"
	"gameoflife/internal/atomicgen"
	"gameoflife/internal/session"
	"gameoflife/internal/store"
	"gameoflife/internal/wsconn"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var boardIDPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// BoardRepository is the slice of the board repository the HTTP and
// websocket entrypoints need. *repository.BoardRepository satisfies it.
type BoardRepository interface {
	CreateBoard(ctx context.Context, dense [][]int) (string, error)
	GetBoardByID(ctx context.Context, boardID string) (store.BoardRecord, error)
	GetNextGeneration(ctx context.Context, boardID string) ([][]int, error)
	GetStateAtGeneration(ctx context.Context, boardID string, generation int) ([][]int, error)
}

// Router builds the mux.Router implementing spec.md §6.
func Router(repo BoardRepository, maxAttemptsCeiling int) *mux.Router {
	h := &handler{repo: repo, maxAttemptsCeiling: maxAttemptsCeiling, activeSessions: atomicgen.New(0)}

	r := mux.NewRouter()
	r.HandleFunc("/boards", h.createBoard).Methods(http.MethodPost)
	r.HandleFunc("/boards/{id}/next", h.nextGeneration).Methods(http.MethodGet)
	r.HandleFunc("/boards/{id}/state/{g}", h.stateAtGeneration).Methods(http.MethodGet)
	r.HandleFunc("/boards/{id}/final", h.initiateFinal).Methods(http.MethodPost)
	r.HandleFunc("/ws", h.websocket)
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	return r
}

type handler struct {
	repo               BoardRepository
	maxAttemptsCeiling int
	activeSessions     *atomicgen.Counter
}

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

// statusFor maps an apierr.Kind to the HTTP status spec.md §7 documents.
func statusFor(kind apierr.Kind) int {
	switch kind {
	case apierr.InvalidInput:
		return http.StatusBadRequest
	case apierr.NotFound:
		return http.StatusNotFound
	case apierr.BackendUnavailable, apierr.ComputeError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) createBoard(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Board [][]int `json:"board"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if !isRectangular(body.Board) {
		writeError(w, http.StatusBadRequest, "board must be a non-empty rectangular 0/1 matrix")
		return
	}

	id, err := h.repo.CreateBoard(r.Context(), body.Board)
	if err != nil {
		writeError(w, statusFor(apierr.KindOf(err)), err.Error())
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]string{"boardId": id})
}

func (h *handler) nextGeneration(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !boardIDPattern.MatchString(id) {
		writeError(w, http.StatusBadRequest, "boardId must be a UUID")
		return
	}

	state, err := h.repo.GetNextGeneration(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(apierr.KindOf(err)), err.Error())
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"state": state})
}

func (h *handler) stateAtGeneration(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	if !boardIDPattern.MatchString(id) {
		writeError(w, http.StatusBadRequest, "boardId must be a UUID")
		return
	}

	generation, err := strconv.Atoi(vars["g"])
	if err != nil || generation < 1 {
		writeError(w, http.StatusBadRequest, "generation must be an integer >= 1")
		return
	}

	state, err := h.repo.GetStateAtGeneration(r.Context(), id, generation)
	if err != nil {
		writeError(w, statusFor(apierr.KindOf(err)), err.Error())
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"state": state, "generation": generation})
}

func (h *handler) initiateFinal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !boardIDPattern.MatchString(id) {
		writeError(w, http.StatusBadRequest, "boardId must be a UUID")
		return
	}

	var body struct {
		MaxAttempts int `json:"maxAttempts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if body.MaxAttempts < 1 || body.MaxAttempts > h.maxAttemptsCeiling {
		writeError(w, http.StatusBadRequest, "maxAttempts out of bounds")
		return
	}

	if _, err := h.repo.GetBoardByID(r.Context(), id); err != nil {
		writeError(w, statusFor(apierr.KindOf(err)), err.Error())
		return
	}

	wsURL := fmt.Sprintf("/ws?boardId=%s&maxAttempts=%d", id, body.MaxAttempts)
	writeSuccess(w, http.StatusAccepted, map[string]string{
		"message":      "Final state calculation initiated",
		"websocketUrl": wsURL,
	})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (h *handler) websocket(w http.ResponseWriter, r *http.Request) {
	boardID := r.URL.Query().Get("boardId")
	maxAttempts := r.URL.Query().Get("maxAttempts")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.activeSessions.Add(1)
	defer h.activeSessions.Add(-1)

	socket := wsconn.New(conn)
	session.Run(r.Context(), socket, h.repo, boardID, maxAttempts, h.maxAttemptsCeiling)
}

// health reports liveness plus the number of in-flight streaming sessions.
func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"activeSessions": h.activeSessions.Read(),
	})
}

func isRectangular(board [][]int) bool {
	if len(board) == 0 {
		return false
	}
	width := len(board[0])
	if width == 0 {
		return false
	}
	for _, row := range board {
		if len(row) != width {
			return false
		}
		for _, v := range row {
			if v != 0 && v != 1 {
				return false
			}
		}
	}
	return true
}
