package board

// Look, Flip, Map, and Watch are the command façade: four package-level
// functions with fixed signatures, each delegating one-to-one to the
// matching Board method. Callers that only need the façade (the HTTP and
// websocket layers) depend on these instead of the Board type directly.

func Look(b *Board, playerID string) string {
	return b.Look(playerID)
}

func Flip(b *Board, playerID string, row, col int) (string, error) {
	return b.Flip(playerID, row, col)
}

func Map(b *Board, playerID string, f func(label string) (string, error)) (string, error) {
	return b.Map(playerID, f)
}

func Watch(b *Board, playerID string) string {
	return b.Watch(playerID)
}
