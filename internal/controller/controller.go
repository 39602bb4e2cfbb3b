package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/trackroom/server/internal/domain"
	"github.com/trackroom/server/internal/repository/broadcast"
	"github.com/trackroom/server/internal/service/room"
	"github.com/trackroom/server/pkg/validator"
)

type iRoomService interface {
	CreateRoom(context.Context, *room.CreateRoomParams) (room.MembershipTokenView, error)
	JoinRoom(context.Context, *room.JoinRoomParams) (room.MembershipTokenView, error)
	GetQueue(ctx context.Context, roomCode string) (room.QueueView, error)
	Enqueue(context.Context, *room.EnqueueParams) (room.QueueItemView, error)
	Move(context.Context, *room.MoveParams) (room.QueueView, error)
	Remove(context.Context, *room.RemoveParams) error
	Vote(context.Context, *room.VoteParams) (bool, error)
	UpdateCapabilities(context.Context, *room.UpdateCapabilitiesParams) ([]string, error)
	GetPlaybackState(ctx context.Context, roomCode string) (*room.PlaybackStateView, error)
	Play(context.Context, *room.PlayParams) (room.PlaybackStateView, error)
	Pause(context.Context, *room.PauseParams) (room.PlaybackStateView, error)
	Seek(context.Context, *room.SeekParams) (room.PlaybackStateView, error)
	ParseToken(tokenString string) (domain.AuthenticatedMember, error)
}

type iEventSource interface {
	SubscribeRoom(ctx context.Context, roomCode string) (<-chan broadcast.Event, func() error)
}

type controller struct {
	roomService iRoomService
	events      iEventSource
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	logger      *slog.Logger
}

func NewController(roomService iRoomService, events iEventSource, logger *slog.Logger) *controller {
	return &controller{
		roomService: roomService,
		events:      events,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
}
