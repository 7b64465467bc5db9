package service

import (
	"context"
	"os"
	"sync"

	"scramble-service/internal/board"
	"scramble-service/internal/config"
	"scramble-service/internal/history"
	"scramble-service/internal/metrics"
	"scramble-service/pkg/apperror"
	"scramble-service/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container wires the board ADT together with the ambient services that
// observe it. Exactly one *board.Board is live at a time; LoadBoardFile
// (behind GET /reset) swaps it out atomically, the same "load, then replace the pointer under a lock"
// shape internal/service/game/runtime.go uses for table state.
type Container struct {
	History *history.Service
	Metrics *metrics.Service

	mu    sync.RWMutex
	board *board.Board
}

func NewContainer(db *gorm.DB, rdb *redis.Client) *Container {
	return &Container{
		History: history.NewService(db),
		Metrics: metrics.NewService(rdb),
	}
}

// Start migrates the history schema and loads the initial board from
// config.GlobalConfig.Board.DefaultFile.
func (c *Container) Start(ctx context.Context) error {
	if err := c.History.Migrate(); err != nil {
		return err
	}
	path := config.GlobalConfig.Board.DefaultFile
	if path == "" {
		return apperror.ErrBoardFileMissing
	}
	return c.LoadBoardFile(ctx, path)
}

// Board returns the currently active board. Safe for concurrent use with
// LoadBoardFile.
func (c *Container) Board() *board.Board {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.board
}

// LoadBoardFile parses path and, on success, atomically replaces the active
// board. Existing connections holding a reference to the old board keep
// talking to it; only requests made after the swap see the new one.
func (c *Container) LoadBoardFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := board.ParseBoard(f)
	if err != nil {
		return err
	}
	b.SetHooks(c.hooks())

	c.mu.Lock()
	c.board = b
	c.mu.Unlock()

	logger.Log.Info("board loaded", zap.String("file", path))
	return nil
}

func (c *Container) hooks() board.Hooks {
	return board.Hooks{
		OnMatch: func(playerID, labelA, labelB string) {
			c.Metrics.IncrMatch(context.Background())
			if err := c.History.RecordMatch(playerID, labelA, labelB); err != nil {
				logger.Log.Error("failed to record match", zap.Error(err), zap.String("playerId", playerID))
			}
		},
		OnMismatch: func(playerID string) {
			c.Metrics.IncrMismatch(context.Background())
		},
	}
}
