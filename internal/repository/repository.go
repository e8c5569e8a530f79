// Package repository implements the board repository (spec.md §4.E): the
// boundary between the wire-level dense matrix and the internal sparse
// board, 3-tier read-through/write-through caching, and cached generation
// lookups.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gameoflife/internal/apierr"
	"gameoflife/internal/cellgrid"
	"gameoflife/internal/store"

	"github.com/google/uuid"
)

// TTLs holds the three cache lifetimes named in spec.md §6.
type TTLs struct {
	Current    time.Duration
	Generation time.Duration
	Final      time.Duration
}

// DefaultTTLs matches spec.md §6's defaults.
func DefaultTTLs() TTLs {
	return TTLs{
		Current:    3600 * time.Second,
		Generation: 86400 * time.Second,
		Final:      604800 * time.Second,
	}
}

// BoardRepository is the component E implementation: CRUD for seeds through
// a DurableStore, layered over a Cache, producing/consuming dense matrices
// at the boundary and sparse boards internally.
type BoardRepository struct {
	durable store.DurableStore
	cache   store.Cache
	ttls    TTLs
	now     func() time.Time
}

// New builds a BoardRepository over durable and cache with the given TTLs.
func New(durable store.DurableStore, cache store.Cache, ttls TTLs) *BoardRepository {
	return &BoardRepository{durable: durable, cache: cache, ttls: ttls, now: time.Now}
}

// CreateBoard mints a boardId, persists the board, and write-throughs the
// cache. On backend failure, no partial state is left behind: the cache is
// only written after the durable insert succeeds.
func (r *BoardRepository) CreateBoard(ctx context.Context, dense [][]int) (string, error) {
	board := cellgrid.FromDense(dense)
	boardID := uuid.NewString()
	now := r.now()

	record := store.BoardRecord{
		BoardID:   boardID,
		LiveCells: sparseToSet(board),
		Rows:      board.Dimensions().Rows,
		Cols:      board.Dimensions().Cols,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.durable.Insert(ctx, record); err != nil {
		return "", err
	}

	if payload, err := json.Marshal(currentCacheEntry{
		State:      record.LiveCells,
		Dimensions: dimsPayload{Rows: record.Rows, Cols: record.Cols},
	}); err == nil {
		r.cache.Set(ctx, currentKey(boardID), payload, r.ttls.Current)
	}

	return boardID, nil
}

// GetBoardByID is read-through: a cache hit is deserialised and returned; a
// miss or cache-layer failure falls through to the durable backend, which
// repopulates the cache on a hit.
func (r *BoardRepository) GetBoardByID(ctx context.Context, boardID string) (store.BoardRecord, error) {
	if payload, ok := r.cache.Get(ctx, currentKey(boardID)); ok {
		var entry currentCacheEntry
		if err := json.Unmarshal(payload, &entry); err == nil {
			return store.BoardRecord{
				BoardID:   boardID,
				LiveCells: entry.State,
				Rows:      entry.Dimensions.Rows,
				Cols:      entry.Dimensions.Cols,
			}, nil
		}
	}

	record, err := r.durable.FindByID(ctx, boardID)
	if err != nil {
		return store.BoardRecord{}, err
	}

	if payload, err := json.Marshal(currentCacheEntry{
		State:      record.LiveCells,
		Dimensions: dimsPayload{Rows: record.Rows, Cols: record.Cols},
	}); err == nil {
		r.cache.Set(ctx, currentKey(boardID), payload, r.ttls.Current)
	}

	return record, nil
}

// GetNextGeneration returns generation 1 for boardID, computing and
// write-through caching it on a miss.
func (r *BoardRepository) GetNextGeneration(ctx context.Context, boardID string) ([][]int, error) {
	key := generationKey(boardID, 1)
	if payload, ok := r.cache.Get(ctx, key); ok {
		var dense [][]int
		if err := json.Unmarshal(payload, &dense); err == nil {
			return dense, nil
		}
	}

	record, err := r.GetBoardByID(ctx, boardID)
	if err != nil {
		return nil, err
	}

	board := recordToBoard(record)
	next := board.NextGeneration()
	dense := next.ToDense()

	r.writeGeneration(ctx, boardID, 1, dense)
	return dense, nil
}

// GetStateAtGeneration returns the dense state at generation G (G >= 1),
// advancing from the seed on a miss. Every 10th intermediate generation is
// opportunistically write-through cached; the final result always is.
func (r *BoardRepository) GetStateAtGeneration(ctx context.Context, boardID string, generation int) ([][]int, error) {
	if generation < 1 {
		return nil, apierr.New(apierr.InvalidInput, "generation must be >= 1")
	}

	key := generationKey(boardID, generation)
	if payload, ok := r.cache.Get(ctx, key); ok {
		var dense [][]int
		if err := json.Unmarshal(payload, &dense); err == nil {
			return dense, nil
		}
	}

	record, err := r.GetBoardByID(ctx, boardID)
	if err != nil {
		return nil, err
	}

	board := recordToBoard(record)
	for g := 1; g <= generation; g++ {
		board = board.NextGeneration()
		if g%10 == 0 || g == generation {
			r.writeGeneration(ctx, boardID, g, board.ToDense())
		}
	}

	return board.ToDense(), nil
}

func (r *BoardRepository) writeGeneration(ctx context.Context, boardID string, generation int, dense [][]int) {
	payload, err := json.Marshal(dense)
	if err != nil {
		return
	}
	r.cache.Set(ctx, generationKey(boardID, generation), payload, r.ttls.Generation)
}

// sparseToSet converts a sparse board's live-cell set into the persisted
// (row,col) pair form.
func sparseToSet(b cellgrid.Board) [][2]int {
	cells := b.LiveCells()
	pairs := make([][2]int, len(cells))
	for i, c := range cells {
		pairs[i] = [2]int{c.Row, c.Col}
	}
	return pairs
}

// recordToBoard converts a persisted record back into a sparse board.
func recordToBoard(record store.BoardRecord) cellgrid.Board {
	dims := cellgrid.Dimensions{Rows: record.Rows, Cols: record.Cols}
	return cellgrid.FromSparse(record.LiveCells, dims)
}

type dimsPayload struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

type currentCacheEntry struct {
	State      [][2]int    `json:"state"`
	Dimensions dimsPayload `json:"dimensions"`
}

func currentKey(boardID string) string {
	return fmt.Sprintf("board:%s:current", boardID)
}

func generationKey(boardID string, generation int) string {
	return fmt.Sprintf("board:%s:generation:%d", boardID, generation)
}
