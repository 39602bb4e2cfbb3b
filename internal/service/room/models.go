package room

import (
	"time"

	"github.com/trackroom/server/internal/domain"
)

type QueueItemView struct {
	Id              string                 `json:"id"`
	TrackId         string                 `json:"track_id"`
	Title           string                 `json:"title"`
	DurationSeconds int                    `json:"duration_seconds"`
	ThumbUrl        *string                `json:"thumb_url"`
	Position        int                    `json:"position"`
	Status          domain.QueueItemStatus `json:"status"`
	EnqueuedAt      time.Time              `json:"enqueued_at"`
	AddedBy         string                 `json:"added_by"`
}

type QueueView struct {
	Items []QueueItemView `json:"items"`
}

type MembershipTokenView struct {
	RoomCode     string      `json:"room_code"`
	Token        string      `json:"token"`
	Role         domain.Role `json:"role"`
	Capabilities []string    `json:"capabilities"`
}

type PlaybackStateView struct {
	NowPlayingItemId *string   `json:"now_playing_item_id"`
	PositionMs       int       `json:"position_ms"`
	Playing          bool      `json:"playing"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toPlaybackView(state domain.PlaybackState) PlaybackStateView {
	return PlaybackStateView{
		NowPlayingItemId: state.NowPlayingItemId,
		PositionMs:       state.PositionMs,
		Playing:          state.Playing,
		UpdatedAt:        state.UpdatedAt,
	}
}
