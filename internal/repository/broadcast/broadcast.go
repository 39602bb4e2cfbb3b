// Package broadcast defines the contract of the fire-and-forget room
// notification transport. There is no backlog and no delivery guarantee;
// clients that miss a message re-fetch the current snapshot.
package broadcast

// Event is one message received from a room channel.
type Event struct {
	Channel string `json:"channel"`
	Payload []byte `json:"payload"`
}

const (
	ChannelQueue    = "queue"
	ChannelPlayback = "playback"
)
