package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trackroom/server/internal/domain"
	"github.com/trackroom/server/internal/repository/playback"
)

// GetPlaybackState returns nil when the room never played anything. A
// failed read from the external store also degrades to "no state".
func (s service) GetPlaybackState(ctx context.Context, roomCode string) (*PlaybackStateView, error) {
	state, err := s.playbackRepo.GetState(ctx, roomCode)
	if err != nil {
		if errors.Is(err, playback.ErrStateNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get playback state: %w", err)
	}

	view := toPlaybackView(state)

	return &view, nil
}

type PlayParams struct {
	RoomCode    string
	QueueItemId string
	PositionMs  int
	Member      domain.AuthenticatedMember
}

func (s service) Play(ctx context.Context, params *PlayParams) (PlaybackStateView, error) {
	room, err := s.verifyPlaybackControl(ctx, params.RoomCode, params.Member)
	if err != nil {
		return PlaybackStateView{}, err
	}

	item, err := s.recordStore.QueueItemById(ctx, params.QueueItemId)
	if err != nil {
		return PlaybackStateView{}, domain.NotFound("queue item not found")
	}
	if item.RoomId != room.Id {
		return PlaybackStateView{}, domain.NotFound("item not in room")
	}

	unlock := s.lockPlayback(params.RoomCode)
	defer unlock()

	itemId := item.Id
	state := domain.PlaybackState{
		RoomId:           room.Id,
		NowPlayingItemId: &itemId,
		PositionMs:       params.PositionMs,
		Playing:          true,
		UpdatedAt:        time.Now().UTC(),
	}
	if err := s.playbackRepo.SetState(ctx, params.RoomCode, state); err != nil {
		return PlaybackStateView{}, fmt.Errorf("failed to set playback state: %w", err)
	}

	view := toPlaybackView(state)
	s.broadcastPlayback(ctx, params.RoomCode, view)

	return view, nil
}

type PauseParams struct {
	RoomCode string
	Member   domain.AuthenticatedMember
}

func (s service) Pause(ctx context.Context, params *PauseParams) (PlaybackStateView, error) {
	if _, err := s.verifyPlaybackControl(ctx, params.RoomCode, params.Member); err != nil {
		return PlaybackStateView{}, err
	}

	unlock := s.lockPlayback(params.RoomCode)
	defer unlock()

	current, err := s.playbackRepo.GetState(ctx, params.RoomCode)
	if err != nil {
		if errors.Is(err, playback.ErrStateNotFound) {
			return PlaybackStateView{}, domain.NotFound("playback state not found")
		}
		return PlaybackStateView{}, fmt.Errorf("failed to get playback state: %w", err)
	}

	current.Playing = false
	current.UpdatedAt = time.Now().UTC()
	if err := s.playbackRepo.SetState(ctx, params.RoomCode, current); err != nil {
		return PlaybackStateView{}, fmt.Errorf("failed to set playback state: %w", err)
	}

	view := toPlaybackView(current)
	s.broadcastPlayback(ctx, params.RoomCode, view)

	return view, nil
}

type SeekParams struct {
	RoomCode   string
	PositionMs int
	Member     domain.AuthenticatedMember
}

func (s service) Seek(ctx context.Context, params *SeekParams) (PlaybackStateView, error) {
	if _, err := s.verifyPlaybackControl(ctx, params.RoomCode, params.Member); err != nil {
		return PlaybackStateView{}, err
	}

	unlock := s.lockPlayback(params.RoomCode)
	defer unlock()

	current, err := s.playbackRepo.GetState(ctx, params.RoomCode)
	if err != nil {
		if errors.Is(err, playback.ErrStateNotFound) {
			return PlaybackStateView{}, domain.NotFound("playback state not found")
		}
		return PlaybackStateView{}, fmt.Errorf("failed to get playback state: %w", err)
	}

	current.PositionMs = params.PositionMs
	current.UpdatedAt = time.Now().UTC()
	if err := s.playbackRepo.SetState(ctx, params.RoomCode, current); err != nil {
		return PlaybackStateView{}, fmt.Errorf("failed to set playback state: %w", err)
	}

	view := toPlaybackView(current)
	s.broadcastPlayback(ctx, params.RoomCode, view)

	return view, nil
}

// verifyPlaybackControl checks the room binding and revalidates the
// PLAYBACK_CONTROL bit against the current membership record.
func (s service) verifyPlaybackControl(ctx context.Context, roomCode string, member domain.AuthenticatedMember) (domain.Room, error) {
	if member.RoomCode != roomCode {
		return domain.Room{}, domain.Forbidden("membership not associated with this room")
	}

	room, err := s.roomByCode(ctx, roomCode)
	if err != nil {
		return domain.Room{}, err
	}

	membership, err := s.boundMembership(ctx, room, member)
	if err != nil {
		return domain.Room{}, err
	}
	if !membership.HasCapability(domain.CapabilityPlaybackControl) {
		return domain.Room{}, domain.Forbidden("you do not have playback control permissions")
	}

	return room, nil
}
