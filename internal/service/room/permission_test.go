package room

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackroom/server/internal/domain"
)

func TestUpdateCapabilities(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	hostView, err := service.CreateRoom(ctx, &CreateRoomParams{HostDisplayName: "alice"})
	require.NoError(t, err)
	host := memberFromToken(t, service, hostView.Token)

	guestView, err := service.JoinRoom(ctx, &JoinRoomParams{RoomCode: hostView.RoomCode, DisplayName: "bob"})
	require.NoError(t, err)
	guest := memberFromToken(t, service, guestView.Token)

	// names are case-insensitive, the stored set is canonical upper case
	capabilities, err := service.UpdateCapabilities(ctx, &UpdateCapabilitiesParams{
		RoomCode:           hostView.RoomCode,
		TargetMembershipId: guest.MembershipId,
		Capabilities:       []string{"reorder_queue", "REMOVE_ITEMS"},
		Actor:              host,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"REORDER_QUEUE", "REMOVE_ITEMS"}, capabilities)

	// the update replaces the whole set, it does not accumulate
	capabilities, err = service.UpdateCapabilities(ctx, &UpdateCapabilitiesParams{
		RoomCode:           hostView.RoomCode,
		TargetMembershipId: guest.MembershipId,
		Capabilities:       []string{"SKIP_OVERRIDE"},
		Actor:              host,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"SKIP_OVERRIDE"}, capabilities)
}

func TestUpdateCapabilitiesHostOnly(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	hostView, err := service.CreateRoom(ctx, &CreateRoomParams{HostDisplayName: "alice"})
	require.NoError(t, err)
	host := memberFromToken(t, service, hostView.Token)

	guestView, err := service.JoinRoom(ctx, &JoinRoomParams{RoomCode: hostView.RoomCode, DisplayName: "bob"})
	require.NoError(t, err)
	guest := memberFromToken(t, service, guestView.Token)

	_, err = service.UpdateCapabilities(ctx, &UpdateCapabilitiesParams{
		RoomCode:           hostView.RoomCode,
		TargetMembershipId: host.MembershipId,
		Capabilities:       []string{"REMOVE_ITEMS"},
		Actor:              guest,
	})
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindForbidden, kind)

	// a host from a different room is just as forbidden
	otherView, err := service.CreateRoom(ctx, &CreateRoomParams{HostDisplayName: "eve"})
	require.NoError(t, err)
	otherHost := memberFromToken(t, service, otherView.Token)

	_, err = service.UpdateCapabilities(ctx, &UpdateCapabilitiesParams{
		RoomCode:           hostView.RoomCode,
		TargetMembershipId: guest.MembershipId,
		Capabilities:       []string{"REMOVE_ITEMS"},
		Actor:              otherHost,
	})
	kind, ok = domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindForbidden, kind)
}

func TestUpdateCapabilitiesUnknownName(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	hostView, err := service.CreateRoom(ctx, &CreateRoomParams{HostDisplayName: "alice"})
	require.NoError(t, err)
	host := memberFromToken(t, service, hostView.Token)

	guestView, err := service.JoinRoom(ctx, &JoinRoomParams{RoomCode: hostView.RoomCode, DisplayName: "bob"})
	require.NoError(t, err)
	guest := memberFromToken(t, service, guestView.Token)

	_, err = service.UpdateCapabilities(ctx, &UpdateCapabilitiesParams{
		RoomCode:           hostView.RoomCode,
		TargetMembershipId: guest.MembershipId,
		Capabilities:       []string{"TELEPORT"},
		Actor:              host,
	})
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindBadRequest, kind)

	_, err = service.UpdateCapabilities(ctx, &UpdateCapabilitiesParams{
		RoomCode:           hostView.RoomCode,
		TargetMembershipId: "no-such-membership",
		Capabilities:       []string{"REMOVE_ITEMS"},
		Actor:              host,
	})
	kind, ok = domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindNotFound, kind)
}
