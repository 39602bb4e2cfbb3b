package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/trackroom/server/internal/repository/broadcast"
)

type repo struct {
	rc     *redis.Client
	logger *slog.Logger
}

func NewRepo(rc *redis.Client, logger *slog.Logger) *repo {
	return &repo{
		rc:     rc,
		logger: logger,
	}
}

func (r repo) getQueueChannel(roomCode string) string {
	return "room:" + roomCode + ":" + broadcast.ChannelQueue
}

func (r repo) getPlaybackChannel(roomCode string) string {
	return "room:" + roomCode + ":" + broadcast.ChannelPlayback
}

func (r repo) publish(ctx context.Context, channel string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize payload: %w", err)
	}

	if err := r.rc.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}

	return nil
}

func (r repo) PublishQueue(ctx context.Context, roomCode string, payload any) error {
	r.logger.DebugContext(ctx, "called", "room_code", roomCode)
	return r.publish(ctx, r.getQueueChannel(roomCode), payload)
}

func (r repo) PublishPlayback(ctx context.Context, roomCode string, payload any) error {
	r.logger.DebugContext(ctx, "called", "room_code", roomCode)
	return r.publish(ctx, r.getPlaybackChannel(roomCode), payload)
}

// SubscribeRoom subscribes to both of a room's channels and forwards every
// message until the returned closer is called or ctx is cancelled.
func (r repo) SubscribeRoom(ctx context.Context, roomCode string) (<-chan broadcast.Event, func() error) {
	pubsub := r.rc.Subscribe(ctx, r.getQueueChannel(roomCode), r.getPlaybackChannel(roomCode))

	events := make(chan broadcast.Event)
	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			kind := broadcast.ChannelQueue
			if strings.HasSuffix(msg.Channel, ":"+broadcast.ChannelPlayback) {
				kind = broadcast.ChannelPlayback
			}

			select {
			case events <- broadcast.Event{Channel: kind, Payload: []byte(msg.Payload)}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, pubsub.Close
}
