// Package playback defines the contract of the ephemeral playback-state
// store: one blob per room code, overwritten wholesale, absent until the
// first play.
package playback

import "errors"

var ErrStateNotFound = errors.New("playback state not found")
