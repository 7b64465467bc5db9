// Package board implements the concurrent Memory Scramble board: a grid of
// face-down cards that many players flip, match, and remove over shared
// connections. The type holds no knowledge of HTTP, websockets, or
// persistence; callers drive it entirely through Look, Flip, Map, and
// Watch.
package board

import (
	"fmt"
	"strings"
)

// Hooks lets a caller observe turn outcomes without the board depending on
// any logging, metrics, or persistence package. Both fields are optional;
// a nil field is simply not called. Hooks run after the board's internal
// lock has been released for the step that produced the event.
type Hooks struct {
	OnMatch    func(playerID, labelA, labelB string)
	OnMismatch func(playerID string)
}

// Board is a rows x cols grid of cards shared by any number of concurrent
// players. All exported methods are safe to call from multiple goroutines
// at once; the zero value is not usable, use NewBoard.
type Board struct {
	rows, cols int
	cells      []cell

	lock     *asyncLock
	players  map[string]*playerRecord
	waiters  map[coord][]*waiterEntry
	watchers []chan struct{}

	hooks Hooks
}

// NewBoard constructs a board of the given dimensions from labels, listed
// in row-major order. len(labels) must equal rows*cols and every label
// must be non-empty; otherwise NewBoard returns ErrLengthMismatch.
func NewBoard(rows, cols int, labels []string) (*Board, error) {
	if rows <= 0 || cols <= 0 || len(labels) != rows*cols {
		return nil, ErrLengthMismatch
	}
	cells := make([]cell, len(labels))
	for i, label := range labels {
		if label == "" {
			return nil, ErrLengthMismatch
		}
		cells[i] = cell{label: label}
	}
	return &Board{
		rows:    rows,
		cols:    cols,
		cells:   cells,
		lock:    newAsyncLock(),
		players: make(map[string]*playerRecord),
		waiters: make(map[coord][]*waiterEntry),
	}, nil
}

// SetHooks installs b's turn-outcome hooks. Intended to be called once,
// right after construction, before the board is shared with callers.
func (b *Board) SetHooks(h Hooks) {
	b.hooks = h
}

// Look returns a snapshot of the board from playerID's point of view. Look
// never mutates board state and never blocks on other players.
func (b *Board) Look(playerID string) string {
	var snapshot string
	b.lock.run(func() {
		b.playerLocked(playerID)
		snapshot = b.snapshotLocked(playerID)
	})
	return snapshot
}

// snapshotLocked renders the board as seen by playerID. Must be called
// with the lock held.
func (b *Board) snapshotLocked(playerID string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%dx%d\n", b.rows, b.cols)
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			cl := b.cells[b.index(coord{row: r, col: c})]
			switch {
			case !cl.present():
				sb.WriteString("none\n")
			case !cl.faceUp:
				sb.WriteString("down\n")
			case cl.controller == playerID:
				fmt.Fprintf(&sb, "my %s\n", cl.label)
			default:
				fmt.Fprintf(&sb, "up %s\n", cl.label)
			}
		}
	}
	return sb.String()
}
