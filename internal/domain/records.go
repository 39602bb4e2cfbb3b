package domain

import "time"

type Role string

const (
	RoleHost  Role = "HOST"
	RoleGuest Role = "GUEST"
)

type RoomStatus string

const (
	RoomStatusActive RoomStatus = "ACTIVE"
	RoomStatusClosed RoomStatus = "CLOSED"
)

type QueueItemStatus string

const (
	QueueItemStatusQueued  QueueItemStatus = "QUEUED"
	QueueItemStatusPlaying QueueItemStatus = "PLAYING"
	QueueItemStatusPlayed  QueueItemStatus = "PLAYED"
	QueueItemStatusRemoved QueueItemStatus = "REMOVED"
)

type VoteType string

const (
	VoteTypeSkip   VoteType = "SKIP"
	VoteTypeRemove VoteType = "REMOVE"
)

type User struct {
	Id          string
	DisplayName string
	CreatedAt   time.Time
}

type Room struct {
	Id        string
	Code      string
	HostId    string
	Status    RoomStatus
	CreatedAt time.Time
}

type Membership struct {
	Id           string
	RoomId       string
	UserId       string
	Role         Role
	Capabilities int
	JoinedAt     time.Time
}

func (m Membership) HasCapability(capability Capability) bool {
	return HasCapability(m.Capabilities, capability)
}

type QueueItem struct {
	Id              string
	RoomId          string
	Position        int
	TrackId         string
	Title           string
	DurationSeconds int
	ThumbUrl        *string
	AddedById       string
	Status          QueueItemStatus
	EnqueuedAt      time.Time
}

// IsActive reports whether the item still occupies a queue position.
// Tombstoned items (played or removed) keep position -1 forever.
func (q QueueItem) IsActive() bool {
	return q.Status == QueueItemStatusQueued || q.Status == QueueItemStatusPlaying
}

type Vote struct {
	Id          string
	QueueItemId string
	UserId      string
	Type        VoteType
	CreatedAt   time.Time
}

// PlaybackState is the single ephemeral playback record of a room. It lives
// in the fast external store keyed by room code and is overwritten wholesale
// on every mutation.
type PlaybackState struct {
	RoomId           string    `json:"room_id"`
	NowPlayingItemId *string   `json:"now_playing_item_id"`
	PositionMs       int       `json:"position_ms"`
	Playing          bool      `json:"playing"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AuthenticatedMember is the verified membership snapshot a transport layer
// passes into the services. The capability list reflects the mask at token
// issuance time; capability-gated operations revalidate against the current
// membership record.
type AuthenticatedMember struct {
	MembershipId string
	UserId       string
	RoomId       string
	RoomCode     string
	Role         Role
	Capabilities []Capability
}
