package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trackroom/server/internal/domain"
	"github.com/trackroom/server/internal/repository/playback"
)

type repo struct {
	rc             *redis.Client
	logger         *slog.Logger
	expireDuration time.Duration
}

func NewRepo(rc *redis.Client, logger *slog.Logger, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		logger:         logger,
		expireDuration: expireDuration,
	}
}

func (r repo) getPlaybackKey(roomCode string) string {
	return "playback:" + roomCode
}

func (r repo) SetState(ctx context.Context, roomCode string, state domain.PlaybackState) error {
	r.logger.DebugContext(ctx, "called", "room_code", roomCode, "state", state)
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to serialize playback state: %w", err)
	}

	if err := r.rc.Set(ctx, r.getPlaybackKey(roomCode), payload, r.expireDuration).Err(); err != nil {
		return fmt.Errorf("failed to set playback state: %w", err)
	}

	return nil
}

// GetState degrades an unreadable blob to "not found" rather than failing
// the call: the state is ephemeral and the next mutation overwrites it.
func (r repo) GetState(ctx context.Context, roomCode string) (domain.PlaybackState, error) {
	payload, err := r.rc.Get(ctx, r.getPlaybackKey(roomCode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.PlaybackState{}, playback.ErrStateNotFound
	}
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return domain.PlaybackState{}, playback.ErrStateNotFound
	}

	var state domain.PlaybackState
	if err := json.Unmarshal(payload, &state); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return domain.PlaybackState{}, playback.ErrStateNotFound
	}

	return state, nil
}
