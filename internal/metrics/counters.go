// Package metrics keeps lightweight activity counters in Redis: total
// flips, matches, and mismatches observed by the board. It is ambient
// observability, wired the same way internal/service/match in the
// teacher's own codebase keys its queue bookkeeping off *redis.Client
// directly rather than through a repository layer.
package metrics

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	keyFlips      = "scramble:metrics:flips"
	keyMatches    = "scramble:metrics:matches"
	keyMismatches = "scramble:metrics:mismatches"
)

type Service struct {
	rdb *redis.Client
}

func NewService(rdb *redis.Client) *Service {
	return &Service{rdb: rdb}
}

func (s *Service) IncrFlip(ctx context.Context) {
	s.rdb.Incr(ctx, keyFlips)
}

func (s *Service) IncrMatch(ctx context.Context) {
	s.rdb.Incr(ctx, keyMatches)
}

func (s *Service) IncrMismatch(ctx context.Context) {
	s.rdb.Incr(ctx, keyMismatches)
}

// Snapshot is the type returned by Stats, shaped for GET /admin/stats.
type Snapshot struct {
	Flips      int64 `json:"flips"`
	Matches    int64 `json:"matches"`
	Mismatches int64 `json:"mismatches"`
}

func (s *Service) Stats(ctx context.Context) (Snapshot, error) {
	vals, err := s.rdb.MGet(ctx, keyFlips, keyMatches, keyMismatches).Result()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Flips:      toInt64(vals[0]),
		Matches:    toInt64(vals[1]),
		Mismatches: toInt64(vals[2]),
	}, nil
}

func toInt64(v interface{}) int64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	var n int64
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0
		}
		n = n*10 + int64(ch-'0')
	}
	return n
}
