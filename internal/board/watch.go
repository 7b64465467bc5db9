package board

// Watch blocks until the next change to the board (any Flip or Map that
// altered cell state) occurs, then returns a snapshot as Look would. A
// watcher is a one-shot: once it fires it is removed from the registry and
// the caller must call Watch again to keep observing.
func (b *Board) Watch(playerID string) string {
	done := make(chan struct{})
	b.lock.run(func() {
		b.playerLocked(playerID)
		b.watchers = append(b.watchers, done)
	})
	<-done
	return b.Look(playerID)
}

// broadcastChangeLocked fulfills every pending watcher and clears the
// registry. Must be called with the board lock held.
func (b *Board) broadcastChangeLocked() {
	for _, ch := range b.watchers {
		close(ch)
	}
	b.watchers = nil
}
