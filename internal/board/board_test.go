package board_test

import (
	"strings"
	"testing"
	"time"

	"scramble-service/internal/board"
)

// newTestBoard builds the 3x3 board used throughout spec scenarios:
//
//	A B A
//	B C B
//	A B A
func newTestBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.NewBoard(3, 3, []string{
		"A", "B", "A",
		"B", "C", "B",
		"A", "B", "A",
	})
	if err != nil {
		t.Fatalf("NewBoard failed: %v", err)
	}
	return b
}

func lineOf(t *testing.T, snapshot string, n int) string {
	t.Helper()
	lines := strings.Split(snapshot, "\n")
	if n >= len(lines) {
		t.Fatalf("snapshot has no line %d: %q", n, snapshot)
	}
	return lines[n]
}

func mustFlip(t *testing.T, b *board.Board, player string, row, col int) string {
	t.Helper()
	snap, err := b.Flip(player, row, col)
	if err != nil {
		t.Fatalf("flip(%s,%d,%d) failed: %v", player, row, col, err)
	}
	return snap
}

// S1: a single player matching a pair, then starting a new turn that
// finalizes the removal.
func TestScenarioS1SelfMatch(t *testing.T) {
	b := newTestBoard(t)

	snap := mustFlip(t, b, "alice", 0, 0)
	if got := lineOf(t, snap, 1); got != "my A" {
		t.Fatalf("line 2 = %q, want %q", got, "my A")
	}

	snap = mustFlip(t, b, "alice", 0, 2)
	if got := lineOf(t, snap, 1); got != "my A" {
		t.Fatalf("line 2 = %q, want %q", got, "my A")
	}
	if got := lineOf(t, snap, 3); got != "my A" {
		t.Fatalf("line 4 = %q, want %q", got, "my A")
	}

	snap = mustFlip(t, b, "alice", 1, 0)
	if got := lineOf(t, snap, 1); got != "none" {
		t.Fatalf("line 2 = %q, want %q", got, "none")
	}
	if got := lineOf(t, snap, 3); got != "none" {
		t.Fatalf("line 4 = %q, want %q", got, "none")
	}
	if got := lineOf(t, snap, 4); got != "my B" {
		t.Fatalf("line 5 = %q, want %q", got, "my B")
	}
}

// S2: a waiter on a cell that gets removed by a match resumes with
// NoCardHere.
func TestScenarioS2WaiterSeesRemoval(t *testing.T) {
	b := newTestBoard(t)
	mustFlip(t, b, "alice", 0, 0)

	bobDone := make(chan error, 1)
	go func() {
		_, err := b.Flip("bob", 0, 0)
		bobDone <- err
	}()

	// Give bob's Flip a chance to enqueue as a waiter before alice moves on.
	time.Sleep(20 * time.Millisecond)

	mustFlip(t, b, "alice", 2, 2) // completes the match on label A
	mustFlip(t, b, "alice", 1, 1) // next turn, finalizes the removal

	select {
	case err := <-bobDone:
		if err != board.ErrNoCardHere {
			t.Fatalf("bob's flip returned %v, want ErrNoCardHere", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("bob's flip never resumed")
	}
}

// S3: a waiter resumes with ownership reserved once alice's turn ends in
// a mismatch.
func TestScenarioS3WaiterResumesOwning(t *testing.T) {
	b := newTestBoard(t)
	mustFlip(t, b, "alice", 0, 0)

	bobDone := make(chan string, 1)
	go func() {
		snap, err := b.Flip("bob", 0, 0)
		if err != nil {
			t.Errorf("bob's flip failed: %v", err)
		}
		bobDone <- snap
	}()

	time.Sleep(20 * time.Millisecond)
	mustFlip(t, b, "alice", 1, 0) // A vs B: mismatch

	select {
	case snap := <-bobDone:
		if got := lineOf(t, snap, 1); got != "my A" {
			t.Fatalf("bob's line 2 = %q, want %q", got, "my A")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("bob's flip never resumed")
	}
}

// S4: of two concurrent waiters on the same cell, exactly one resolves
// immediately when the holder mismatches; the other stays queued.
func TestScenarioS4OnlyOneWaiterWoken(t *testing.T) {
	b := newTestBoard(t)
	mustFlip(t, b, "alice", 0, 0)

	results := make(chan string, 2)
	go func() {
		snap, err := b.Flip("bob", 0, 0)
		if err != nil {
			t.Errorf("bob's flip failed: %v", err)
			return
		}
		results <- "bob:" + snap
	}()
	go func() {
		snap, err := b.Flip("carol", 0, 0)
		if err != nil {
			t.Errorf("carol's flip failed: %v", err)
			return
		}
		results <- "carol:" + snap
	}()

	time.Sleep(20 * time.Millisecond)
	mustFlip(t, b, "alice", 1, 0) // mismatch releases exactly one waiter

	select {
	case r := <-results:
		who := strings.Split(r, ":")[0]
		snap := strings.Split(r, ":")[1]
		if got := lineOf(t, snap, 1); got != "my A" {
			t.Fatalf("%s's line 2 = %q, want %q", who, got, "my A")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("neither waiter resumed")
	}

	select {
	case r := <-results:
		t.Fatalf("a second waiter resolved unexpectedly: %s", r)
	case <-time.After(100 * time.Millisecond):
		// expected: the other waiter is still queued
	}
}

// S5: Map rewrites every still-present A to Z; the snapshot Map returns
// shows Z on all four former A cards.
func TestScenarioS5MapRewrite(t *testing.T) {
	b := newTestBoard(t)

	// A face-down card reads "down" whatever its label, so turn each A
	// face-up (one player per card) before the rewrite.
	mustFlip(t, b, "alice", 0, 0)
	mustFlip(t, b, "bob", 0, 2)
	mustFlip(t, b, "carol", 2, 0)
	mustFlip(t, b, "dave", 2, 2)

	snap, err := b.Map("alice", func(label string) (string, error) {
		if label == "A" {
			return "Z", nil
		}
		return label, nil
	})
	if err != nil {
		t.Fatalf("map failed: %v", err)
	}

	for _, n := range []int{1, 3, 7, 9} {
		line := lineOf(t, snap, n)
		if !strings.HasSuffix(line, "Z") {
			t.Fatalf("line %d = %q, want a Z-labeled cell", n+1, line)
		}
	}
}

func TestFlipOutOfRangeFailsWithoutMutation(t *testing.T) {
	b := newTestBoard(t)
	before := b.Look("alice")

	_, err := b.Flip("alice", 5, 5)
	if err != board.ErrInvalidCoordinates {
		t.Fatalf("got %v, want ErrInvalidCoordinates", err)
	}

	after := b.Look("alice")
	if before != after {
		t.Fatalf("board mutated by an out-of-range flip:\nbefore=%q\nafter=%q", before, after)
	}
}

func TestFlipRemovedCellFailsWithNoCardHere(t *testing.T) {
	b := newTestBoard(t)
	mustFlip(t, b, "alice", 0, 0)
	mustFlip(t, b, "alice", 0, 2) // match
	mustFlip(t, b, "alice", 1, 1) // finalize removal

	_, err := b.Flip("alice", 0, 0)
	if err != board.ErrNoCardHere {
		t.Fatalf("got %v, want ErrNoCardHere", err)
	}
}

func TestSecondFlipOnControlledCellRelinquishesFirst(t *testing.T) {
	b := newTestBoard(t)
	mustFlip(t, b, "alice", 0, 0)
	mustFlip(t, b, "bob", 1, 1) // unrelated card, bob's own first flip

	boardBob := make(chan error, 1)
	go func() {
		_, err := b.Flip("bob", 0, 0) // (0,0) is controlled by alice
		boardBob <- err
	}()

	select {
	case err := <-boardBob:
		if err != board.ErrTargetControlled {
			t.Fatalf("got %v, want ErrTargetControlled", err)
		}
		// bob's first card (1,1) stays face-up but is no longer his.
		if got := lineOf(t, b.Look("bob"), 5); got != "up C" {
			t.Fatalf("bob's line 6 = %q, want %q", got, "up C")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("bob's second flip should have failed immediately, not blocked")
	}
}

func TestLookIsIdempotentWithoutChange(t *testing.T) {
	b := newTestBoard(t)
	mustFlip(t, b, "alice", 0, 0)

	first := b.Look("alice")
	second := b.Look("alice")
	if first != second {
		t.Fatalf("Look not idempotent:\nfirst=%q\nsecond=%q", first, second)
	}
}

func TestWatchWakesOnChange(t *testing.T) {
	b := newTestBoard(t)

	watchDone := make(chan string, 1)
	go func() {
		watchDone <- b.Watch("observer")
	}()

	time.Sleep(20 * time.Millisecond)
	mustFlip(t, b, "alice", 0, 0)

	select {
	case snap := <-watchDone:
		if got := lineOf(t, snap, 1); got != "up A" {
			t.Fatalf("observer's line 2 = %q, want %q", got, "up A")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch never woke up")
	}
}

func TestMatchHookFiresOnRemoval(t *testing.T) {
	b := newTestBoard(t)

	type event struct{ player, a, bLabel string }
	events := make(chan event, 4)
	b.SetHooks(board.Hooks{
		OnMatch: func(playerID, labelA, labelB string) {
			events <- event{playerID, labelA, labelB}
		},
	})

	mustFlip(t, b, "alice", 0, 0)
	mustFlip(t, b, "alice", 0, 2) // match detected, removal deferred
	select {
	case <-events:
		t.Fatal("OnMatch fired before the removal was finalized")
	case <-time.After(50 * time.Millisecond):
	}

	mustFlip(t, b, "alice", 1, 1) // finalizes the previous turn's match
	select {
	case ev := <-events:
		if ev.player != "alice" || ev.a != "A" || ev.bLabel != "A" {
			t.Fatalf("unexpected match event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("OnMatch never fired")
	}
}

func TestMismatchHookFiresImmediately(t *testing.T) {
	b := newTestBoard(t)

	mismatches := make(chan string, 4)
	b.SetHooks(board.Hooks{
		OnMismatch: func(playerID string) { mismatches <- playerID },
	})

	mustFlip(t, b, "alice", 0, 0)
	mustFlip(t, b, "alice", 1, 0) // A vs B

	select {
	case who := <-mismatches:
		if who != "alice" {
			t.Fatalf("got mismatch for %q, want alice", who)
		}
	case <-time.After(time.Second):
		t.Fatal("OnMismatch never fired")
	}
}
