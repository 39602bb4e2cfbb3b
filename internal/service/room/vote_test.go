package room

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackroom/server/internal/domain"
)

func TestVoteSkipThreshold(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	hostView, err := service.CreateRoom(ctx, &CreateRoomParams{HostDisplayName: "alice"})
	require.NoError(t, err)
	host := memberFromToken(t, service, hostView.Token)

	guests := make([]domain.AuthenticatedMember, 0, 3)
	for _, name := range []string{"bob", "carol", "dave"} {
		view, err := service.JoinRoom(ctx, &JoinRoomParams{RoomCode: hostView.RoomCode, DisplayName: name})
		require.NoError(t, err)
		guests = append(guests, memberFromToken(t, service, view.Token))
	}

	item := enqueueTrack(t, service, hostView.RoomCode, host, "target")

	// 4 members total, majority is 3
	applied, err := service.Vote(ctx, &VoteParams{
		RoomCode: hostView.RoomCode,
		ItemId:   item.Id,
		Type:     domain.VoteTypeSkip,
		Member:   guests[0],
	})
	require.NoError(t, err)
	assert.False(t, applied, "one of three required votes must not apply")

	applied, err = service.Vote(ctx, &VoteParams{
		RoomCode: hostView.RoomCode,
		ItemId:   item.Id,
		Type:     domain.VoteTypeSkip,
		Member:   guests[1],
	})
	require.NoError(t, err)
	assert.False(t, applied, "two of three required votes must not apply")

	applied, err = service.Vote(ctx, &VoteParams{
		RoomCode: hostView.RoomCode,
		ItemId:   item.Id,
		Type:     domain.VoteTypeSkip,
		Member:   guests[2],
	})
	require.NoError(t, err)
	assert.True(t, applied, "third vote crosses the majority")

	view, err := service.GetQueue(ctx, hostView.RoomCode)
	require.NoError(t, err)
	assert.Empty(t, view.Items, "skipped item must leave the active queue")
}

func TestVoteIsIdempotentPerVoter(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	hostView, err := service.CreateRoom(ctx, &CreateRoomParams{HostDisplayName: "alice"})
	require.NoError(t, err)
	host := memberFromToken(t, service, hostView.Token)

	guestView, err := service.JoinRoom(ctx, &JoinRoomParams{RoomCode: hostView.RoomCode, DisplayName: "bob"})
	require.NoError(t, err)
	guest := memberFromToken(t, service, guestView.Token)

	item := enqueueTrack(t, service, hostView.RoomCode, host, "target")

	// need a third member so a single guest vote stays below the threshold
	_, err = service.JoinRoom(ctx, &JoinRoomParams{RoomCode: hostView.RoomCode, DisplayName: "carol"})
	require.NoError(t, err)

	applied, err := service.Vote(ctx, &VoteParams{
		RoomCode: hostView.RoomCode,
		ItemId:   item.Id,
		Type:     domain.VoteTypeRemove,
		Member:   guest,
	})
	require.NoError(t, err)
	assert.False(t, applied)

	_, err = service.Vote(ctx, &VoteParams{
		RoomCode: hostView.RoomCode,
		ItemId:   item.Id,
		Type:     domain.VoteTypeRemove,
		Member:   guest,
	})
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindForbidden, kind)
	assert.EqualError(t, err, "vote already recorded")

	// a vote of the other type by the same member is a fresh ballot
	applied, err = service.Vote(ctx, &VoteParams{
		RoomCode: hostView.RoomCode,
		ItemId:   item.Id,
		Type:     domain.VoteTypeSkip,
		Member:   guest,
	})
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestHostVoteAppliesImmediately(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	hostView, err := service.CreateRoom(ctx, &CreateRoomParams{HostDisplayName: "alice"})
	require.NoError(t, err)
	host := memberFromToken(t, service, hostView.Token)

	for _, name := range []string{"bob", "carol", "dave"} {
		_, err := service.JoinRoom(ctx, &JoinRoomParams{RoomCode: hostView.RoomCode, DisplayName: name})
		require.NoError(t, err)
	}

	item := enqueueTrack(t, service, hostView.RoomCode, host, "target")

	applied, err := service.Vote(ctx, &VoteParams{
		RoomCode: hostView.RoomCode,
		ItemId:   item.Id,
		Type:     domain.VoteTypeRemove,
		Member:   host,
	})
	require.NoError(t, err)
	assert.True(t, applied, "host outcome applies regardless of member count")

	view, err := service.GetQueue(ctx, hostView.RoomCode)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestVoteOnTombstonedItem(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	hostView, err := service.CreateRoom(ctx, &CreateRoomParams{HostDisplayName: "alice"})
	require.NoError(t, err)
	host := memberFromToken(t, service, hostView.Token)

	item := enqueueTrack(t, service, hostView.RoomCode, host, "target")

	err = service.Remove(ctx, &RemoveParams{RoomCode: hostView.RoomCode, ItemId: item.Id, Member: host})
	require.NoError(t, err)

	_, err = service.Vote(ctx, &VoteParams{
		RoomCode: hostView.RoomCode,
		ItemId:   item.Id,
		Type:     domain.VoteTypeSkip,
		Member:   host,
	})
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindBadRequest, kind)
}
