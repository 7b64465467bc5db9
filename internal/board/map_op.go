package board

// Map applies f to the label of every present cell and rewrites the board
// with the results, visible to every other player as a single atomic
// change. f runs with the board lock released, so it may take arbitrary
// time, but it must not call back into this board: doing so deadlocks or
// reorders with a concurrent Flip in an undefined way.
//
// If f returns an error for any cell, Map returns that error immediately
// and leaves the board entirely unchanged; no partial rewrite is applied.
func (b *Board) Map(playerID string, f func(label string) (string, error)) (string, error) {
	type snapshot struct {
		pos   coord
		label string
	}

	var present []snapshot
	b.lock.run(func() {
		b.playerLocked(playerID)
		for r := 0; r < b.rows; r++ {
			for c := 0; c < b.cols; c++ {
				pos := coord{row: r, col: c}
				cl := b.cells[b.index(pos)]
				if cl.present() {
					present = append(present, snapshot{pos: pos, label: cl.label})
				}
			}
		}
	})

	type rewrite struct {
		pos      coord
		newLabel string
	}
	rewrites := make([]rewrite, 0, len(present))
	for _, s := range present {
		newLabel, err := f(s.label)
		if err != nil {
			return "", err
		}
		// An empty post-image would make the cell read as absent while its
		// faceUp/controller fields are still set; reject it here, before the
		// apply phase, so a bad rewrite never reaches the board at all.
		if newLabel == "" {
			return "", ErrEmptyLabel
		}
		rewrites = append(rewrites, rewrite{pos: s.pos, newLabel: newLabel})
	}

	var out string
	b.lock.run(func() {
		for _, rw := range rewrites {
			idx := b.index(rw.pos)
			// A card removed by a match while f ran is skipped: its
			// absence is permanent and Map never resurrects a label.
			if !b.cells[idx].present() {
				continue
			}
			b.cells[idx].label = rw.newLabel
		}
		b.broadcastChangeLocked()
		out = b.snapshotLocked(playerID)
	})
	return out, nil
}
