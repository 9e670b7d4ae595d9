package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"staffboard-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Cache keys
const (
	leaderboardKey = "kpi:leaderboard"
	leaderboardTTL = 5 * time.Minute
)

var client *redis.Client

// Init initializes the Redis connection. The cache is optional: when no host
// is configured or the server is unreachable, every call degrades to a miss.
func Init(host string, port int, password string) error {
	if host == "" {
		return nil
	}

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// Enabled reports whether a live Redis connection exists
func Enabled() bool {
	return client != nil
}

// GetLeaderboard returns the cached leaderboard, if any
func GetLeaderboard(ctx context.Context) ([]*models.StaffKPI, bool) {
	if client == nil {
		return nil, false
	}
	raw, err := client.Get(ctx, leaderboardKey).Bytes()
	if err != nil {
		return nil, false
	}
	var kpis []*models.StaffKPI
	if err := json.Unmarshal(raw, &kpis); err != nil {
		return nil, false
	}
	return kpis, true
}

// SetLeaderboard caches the most recent leaderboard
func SetLeaderboard(ctx context.Context, kpis []*models.StaffKPI) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(kpis)
	if err != nil {
		return
	}
	client.Set(ctx, leaderboardKey, raw, leaderboardTTL)
}

// InvalidateLeaderboard drops the cached leaderboard after new transactions
// arrive
func InvalidateLeaderboard(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, leaderboardKey)
}
