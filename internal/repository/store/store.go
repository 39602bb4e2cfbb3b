// Package store defines the contract of the keyed record store for users,
// rooms, memberships, queue items and votes.
package store

import (
	"errors"
	"time"

	"github.com/trackroom/server/internal/domain"
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrQueueItemNotFound  = errors.New("queue item not found")
)

type CreateUserParams struct {
	Id          string
	DisplayName string
	CreatedAt   time.Time
}

type CreateRoomParams struct {
	Id        string
	Code      string
	HostId    string
	Status    domain.RoomStatus
	CreatedAt time.Time
}

type CreateMembershipParams struct {
	Id           string
	RoomId       string
	UserId       string
	Role         domain.Role
	Capabilities int
	JoinedAt     time.Time
}

type CreateQueueItemParams struct {
	Id              string
	RoomId          string
	Position        int
	TrackId         string
	Title           string
	DurationSeconds int
	ThumbUrl        *string
	AddedById       string
	Status          domain.QueueItemStatus
	EnqueuedAt      time.Time
}

type CreateVoteParams struct {
	Id          string
	QueueItemId string
	UserId      string
	Type        domain.VoteType
	CreatedAt   time.Time
}

type VoteKeyParams struct {
	QueueItemId string
	UserId      string
	Type        domain.VoteType
}

// ActiveQueueItem is a queue item joined with the display name of the user
// who added it.
type ActiveQueueItem struct {
	domain.QueueItem
	AddedByName string
}

type PositionUpdate struct {
	ItemId   string
	Position int
}

type TombstoneParams struct {
	ItemId string
	Status domain.QueueItemStatus
}

// ApplyQueueOrderParams describes one atomic rewrite of a room's queue
// ordering: an optional tombstone (status change + position -1) and the new
// positions of the remaining active items. The store must apply all of it or
// none of it.
type ApplyQueueOrderParams struct {
	Tombstone *TombstoneParams
	Positions []PositionUpdate
}
