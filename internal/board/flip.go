package board

// matchEvent describes a pair of cards removed by a successful match,
// reported to Hooks.OnMatch once the removal is finalized.
type matchEvent struct {
	playerID, labelA, labelB string
}

type flipKind int

const (
	flipOK flipKind = iota
	flipFail
	flipWait
	flipRetry
)

type flipOutcome struct {
	kind     flipKind
	snapshot string
	err      error
	wait     <-chan struct{}
}

// Flip is the only operation that advances a player's turn. Apart from
// waiting for the board lock, it blocks only when the flip is the first
// card of a turn and the target cell is controlled by another player; a
// second-card flip onto a controlled cell fails at once. On return, the error is one of
// ErrInvalidCoordinates, ErrNoCardHere, or ErrTargetControlled, or nil.
func (b *Board) Flip(playerID string, row, col int) (string, error) {
	target := coord{row: row, col: col}
	runFinalize := true
	for {
		outcome, match, mismatchedBy := b.stepFlipLocked(playerID, target, runFinalize)
		runFinalize = false

		if match != nil && b.hooks.OnMatch != nil {
			b.hooks.OnMatch(match.playerID, match.labelA, match.labelB)
		}
		if mismatchedBy != "" && b.hooks.OnMismatch != nil {
			b.hooks.OnMismatch(mismatchedBy)
		}

		switch outcome.kind {
		case flipOK:
			return outcome.snapshot, nil
		case flipFail:
			return "", outcome.err
		case flipRetry:
			runFinalize = true
			continue
		case flipWait:
			<-outcome.wait
			continue
		}
	}
}

// stepFlipLocked runs one locked attempt at advancing playerID's turn
// toward target. runFinalize controls whether the previous turn's
// finalize step runs first; it is true for the first attempt of a given
// Flip call and for the attempt after a flipRetry, never on a resume from
// waiting.
func (b *Board) stepFlipLocked(playerID string, target coord, runFinalize bool) (flipOutcome, *matchEvent, string) {
	var outcome flipOutcome
	var match *matchEvent
	var mismatchedBy string

	b.lock.run(func() {
		p := b.playerLocked(playerID)
		if runFinalize {
			match = b.finalizeLocked(p)
		}

		switch len(p.controlled) {
		case 0:
			outcome = b.flipFirstCardLocked(p, target)
		case 1:
			var mismatched bool
			outcome, mismatched = b.flipSecondCardLocked(p, target)
			if mismatched {
				mismatchedBy = p.id
			}
		default:
			// A pair is left only when finalize did not run on this attempt
			// (a resume from waiting) and another Flip by the same player
			// completed a pair meanwhile. Retry without waiting; the retry
			// runs the finalize step.
			outcome = flipOutcome{kind: flipRetry}
		}
	})

	return outcome, match, mismatchedBy
}

// finalizeLocked resolves playerID's previous turn, if any is pending, per
// the rules for a completed pair (match or mismatch) or a single card
// already relinquished by a failed second-card attempt. Must be called
// with the lock held.
func (b *Board) finalizeLocked(p *playerRecord) *matchEvent {
	switch len(p.controlled) {
	case 2:
		first, second := p.controlled[0], p.controlled[1]
		fi, si := b.index(first), b.index(second)
		cf, cs := b.cells[fi], b.cells[si]

		if cf.present() && cs.present() && cf.label == cs.label {
			label := cf.label
			b.cells[fi] = cell{}
			b.cells[si] = cell{}
			p.controlled = nil
			b.wakeLocked(first)
			b.wakeLocked(second)
			b.broadcastChangeLocked()
			return &matchEvent{playerID: p.id, labelA: label, labelB: label}
		}

		// Only a cell still uncontrolled is actually being relinquished here;
		// one already reserved by a waiter (the immediate wake inside
		// flipSecondCardLocked's mismatch branch) keeps its new controller
		// and must not be woken again, or the wake below would steal it out
		// from under whoever already holds it.
		changed := false
		wakeFirst := cf.present() && cf.faceUp && cf.controller == ""
		if wakeFirst {
			b.cells[fi].faceUp = false
			changed = true
		}
		wakeSecond := cs.present() && cs.faceUp && cs.controller == ""
		if wakeSecond {
			b.cells[si].faceUp = false
			changed = true
		}
		p.controlled = nil
		if wakeFirst {
			b.wakeLocked(first)
		}
		if wakeSecond {
			b.wakeLocked(second)
		}
		if changed {
			b.broadcastChangeLocked()
		}
		return nil

	case 1:
		pos := p.controlled[0]
		idx := b.index(pos)
		cl := b.cells[idx]
		if cl.controller == p.id {
			// Still actively held: the previous turn isn't over yet.
			return nil
		}
		p.controlled = nil
		if cl.present() && cl.faceUp && cl.controller == "" {
			b.cells[idx].faceUp = false
			b.wakeLocked(pos)
			b.broadcastChangeLocked()
		}
		return nil
	}
	return nil
}

// flipFirstCardLocked handles Flip when playerID holds no cards. Must be
// called with the lock held.
func (b *Board) flipFirstCardLocked(p *playerRecord, target coord) flipOutcome {
	if !b.inRange(target) {
		return flipOutcome{kind: flipFail, err: ErrInvalidCoordinates}
	}
	idx := b.index(target)
	cl := b.cells[idx]
	if !cl.present() {
		return flipOutcome{kind: flipFail, err: ErrNoCardHere}
	}
	if cl.controller != "" && cl.controller != p.id {
		ch := b.enqueueWaiterLocked(target, p.id)
		return flipOutcome{kind: flipWait, wait: ch}
	}

	b.cells[idx].faceUp = true
	b.cells[idx].controller = p.id
	p.controlled = append(p.controlled, target)
	b.broadcastChangeLocked()
	return flipOutcome{kind: flipOK, snapshot: b.snapshotLocked(p.id)}
}

// flipSecondCardLocked handles Flip when playerID already holds exactly
// one card. Must be called with the lock held. The bool result reports
// whether this attempt produced a fresh mismatch.
func (b *Board) flipSecondCardLocked(p *playerRecord, target coord) (flipOutcome, bool) {
	if !b.inRange(target) {
		return flipOutcome{kind: flipFail, err: ErrInvalidCoordinates}, false
	}

	first := p.controlled[0]
	idx := b.index(target)
	cl := b.cells[idx]

	if !cl.present() {
		b.relinquishFirstCardLocked(p)
		return flipOutcome{kind: flipFail, err: ErrNoCardHere}, false
	}
	if cl.faceUp && cl.controller != "" {
		b.relinquishFirstCardLocked(p)
		return flipOutcome{kind: flipFail, err: ErrTargetControlled}, false
	}

	b.cells[idx].faceUp = true
	b.cells[idx].controller = p.id

	firstLabel := b.cells[b.index(first)].label
	if firstLabel == cl.label {
		p.controlled = append(p.controlled, target)
		b.broadcastChangeLocked()
		return flipOutcome{kind: flipOK, snapshot: b.snapshotLocked(p.id)}, false
	}

	fi := b.index(first)
	b.cells[fi].controller = ""
	b.cells[idx].controller = ""
	p.controlled = []coord{first, target}
	b.broadcastChangeLocked()
	b.wakeLocked(first)
	return flipOutcome{kind: flipOK, snapshot: b.snapshotLocked(p.id)}, true
}

// relinquishFirstCardLocked gives up playerID's claim on its first card
// after a failed second-card attempt. The card stays face-up and in
// p.controlled as a single pending-finalize entry; hiding it and waking
// any waiter is deferred to the finalize step of p's next Flip, as the
// match removal is. (A mismatch, by contrast, wakes a waiter on the first
// card at once.)
func (b *Board) relinquishFirstCardLocked(p *playerRecord) {
	first := p.controlled[0]
	b.cells[b.index(first)].controller = ""
}
