package room

import (
	"context"
	"log/slog"
	"time"

	"github.com/trackroom/server/internal/domain"
	"github.com/trackroom/server/internal/repository/store"
	"github.com/trackroom/server/pkg/keylock"
	"github.com/trackroom/server/pkg/randstr"
)

const (
	roomCodeLength = 6
	// no 0/O/1/I, codes are read aloud between people in a room
	roomCodeLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

type iRecordStore interface {
	CreateUser(context.Context, *store.CreateUserParams) error
	UserById(ctx context.Context, userId string) (domain.User, error)
	CreateRoom(context.Context, *store.CreateRoomParams) error
	RoomByCode(ctx context.Context, code string) (domain.Room, error)
	RoomCodeExists(ctx context.Context, code string) (bool, error)
	CreateMembership(context.Context, *store.CreateMembershipParams) error
	MembershipById(ctx context.Context, membershipId string) (domain.Membership, error)
	CountRoomMemberships(ctx context.Context, roomId string) (int, error)
	UpdateMembershipCapabilities(ctx context.Context, membershipId string, capabilities int) error
	CreateQueueItem(context.Context, *store.CreateQueueItemParams) error
	QueueItemById(ctx context.Context, itemId string) (domain.QueueItem, error)
	ActiveQueueItems(ctx context.Context, roomId string) ([]store.ActiveQueueItem, error)
	ApplyQueueOrder(context.Context, *store.ApplyQueueOrderParams) error
	CreateVote(context.Context, *store.CreateVoteParams) error
	VoteExists(context.Context, *store.VoteKeyParams) (bool, error)
	CountVotes(ctx context.Context, queueItemId string, voteType domain.VoteType) (int, error)
}

type iPlaybackRepo interface {
	SetState(ctx context.Context, roomCode string, state domain.PlaybackState) error
	GetState(ctx context.Context, roomCode string) (domain.PlaybackState, error)
}

type iBroadcaster interface {
	PublishQueue(ctx context.Context, roomCode string, payload any) error
	PublishPlayback(ctx context.Context, roomCode string, payload any) error
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type Config struct {
	Secret       string
	Issuer       string
	TokenExpiry  time.Duration
	MembersLimit int
}

type service struct {
	recordStore  iRecordStore
	playbackRepo iPlaybackRepo
	broadcaster  iBroadcaster
	generator    iGenerator
	locks        *keylock.KeyLock
	logger       *slog.Logger
	secret       []byte
	issuer       string
	tokenExpiry  time.Duration
	membersLimit int
}

func NewService(recordStore iRecordStore, playbackRepo iPlaybackRepo, broadcaster iBroadcaster, logger *slog.Logger, cfg *Config) *service {
	return &service{
		recordStore:  recordStore,
		playbackRepo: playbackRepo,
		broadcaster:  broadcaster,
		generator:    randstr.New([]byte(roomCodeLetters)),
		locks:        keylock.New(),
		logger:       logger,
		secret:       []byte(cfg.Secret),
		issuer:       cfg.Issuer,
		tokenExpiry:  cfg.TokenExpiry,
		membersLimit: cfg.MembersLimit,
	}
}

// lockQueue serializes queue-ordering mutations per room: at most one of
// enqueue, move, remove or vote-outcome application runs at a time for a
// given room, so position renumbering never races a concurrent writer.
func (s service) lockQueue(roomId string) func() {
	return s.locks.Lock("queue:" + roomId)
}

// lockPlayback serializes playback read-modify-write per room code so a late
// pause cannot clobber a newer seek.
func (s service) lockPlayback(roomCode string) func() {
	return s.locks.Lock("playback:" + roomCode)
}
