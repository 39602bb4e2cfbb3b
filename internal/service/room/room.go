package room

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trackroom/server/internal/domain"
	"github.com/trackroom/server/internal/repository/store"
)

type CreateRoomParams struct {
	HostDisplayName string
}

func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (MembershipTokenView, error) {
	now := time.Now().UTC()

	host := store.CreateUserParams{
		Id:          uuid.NewString(),
		DisplayName: params.HostDisplayName,
		CreatedAt:   now,
	}
	if err := s.recordStore.CreateUser(ctx, &host); err != nil {
		return MembershipTokenView{}, fmt.Errorf("failed to create user: %w", err)
	}

	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		return MembershipTokenView{}, err
	}

	room := store.CreateRoomParams{
		Id:        uuid.NewString(),
		Code:      code,
		HostId:    host.Id,
		Status:    domain.RoomStatusActive,
		CreatedAt: now,
	}
	if err := s.recordStore.CreateRoom(ctx, &room); err != nil {
		return MembershipTokenView{}, fmt.Errorf("failed to create room: %w", err)
	}

	membership := store.CreateMembershipParams{
		Id:           uuid.NewString(),
		RoomId:       room.Id,
		UserId:       host.Id,
		Role:         domain.RoleHost,
		Capabilities: domain.ToMask(domain.AllCapabilities()),
		JoinedAt:     now,
	}
	if err := s.recordStore.CreateMembership(ctx, &membership); err != nil {
		return MembershipTokenView{}, fmt.Errorf("failed to create membership: %w", err)
	}

	token, err := s.generateToken(domain.Membership{
		Id:           membership.Id,
		RoomId:       membership.RoomId,
		UserId:       membership.UserId,
		Role:         membership.Role,
		Capabilities: membership.Capabilities,
		JoinedAt:     membership.JoinedAt,
	}, room.Code)
	if err != nil {
		return MembershipTokenView{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return MembershipTokenView{
		RoomCode:     room.Code,
		Token:        token,
		Role:         membership.Role,
		Capabilities: domain.CapabilityNames(domain.FromMask(membership.Capabilities)),
	}, nil
}

type JoinRoomParams struct {
	RoomCode    string
	DisplayName string
}

func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (MembershipTokenView, error) {
	room, err := s.roomByCode(ctx, params.RoomCode)
	if err != nil {
		return MembershipTokenView{}, err
	}
	if room.Status != domain.RoomStatusActive {
		return MembershipTokenView{}, domain.BadRequest("room is not active")
	}

	currentMembers, err := s.recordStore.CountRoomMemberships(ctx, room.Id)
	if err != nil {
		return MembershipTokenView{}, fmt.Errorf("failed to count memberships: %w", err)
	}
	if currentMembers >= s.membersLimit {
		return MembershipTokenView{}, domain.BadRequest("room is full")
	}

	now := time.Now().UTC()
	user := store.CreateUserParams{
		Id:          uuid.NewString(),
		DisplayName: params.DisplayName,
		CreatedAt:   now,
	}
	if err := s.recordStore.CreateUser(ctx, &user); err != nil {
		return MembershipTokenView{}, fmt.Errorf("failed to create user: %w", err)
	}

	membership := store.CreateMembershipParams{
		Id:           uuid.NewString(),
		RoomId:       room.Id,
		UserId:       user.Id,
		Role:         domain.RoleGuest,
		Capabilities: 0,
		JoinedAt:     now,
	}
	if err := s.recordStore.CreateMembership(ctx, &membership); err != nil {
		return MembershipTokenView{}, fmt.Errorf("failed to create membership: %w", err)
	}

	token, err := s.generateToken(domain.Membership{
		Id:     membership.Id,
		RoomId: membership.RoomId,
		UserId: membership.UserId,
		Role:   membership.Role,
	}, room.Code)
	if err != nil {
		return MembershipTokenView{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return MembershipTokenView{
		RoomCode:     room.Code,
		Token:        token,
		Role:         membership.Role,
		Capabilities: []string{},
	}, nil
}

func (s service) generateUniqueCode(ctx context.Context) (string, error) {
	for {
		code := s.generator.GenerateRandomString(roomCodeLength)
		exists, err := s.recordStore.RoomCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check room code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
}
