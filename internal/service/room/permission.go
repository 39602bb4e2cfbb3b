package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/trackroom/server/internal/domain"
	"github.com/trackroom/server/internal/repository/store"
)

type UpdateCapabilitiesParams struct {
	RoomCode           string
	TargetMembershipId string
	Capabilities       []string
	Actor              domain.AuthenticatedMember
}

// UpdateCapabilities replaces the target membership's capability mask with
// the requested set. Host-only, and only within the host's own room. The
// new set takes effect immediately for capability-gated calls; tokens
// already issued keep their stale snapshot until reissued.
func (s service) UpdateCapabilities(ctx context.Context, params *UpdateCapabilitiesParams) ([]string, error) {
	room, err := s.roomByCode(ctx, params.RoomCode)
	if err != nil {
		return nil, err
	}

	if params.Actor.Role != domain.RoleHost || params.Actor.RoomId != room.Id {
		return nil, domain.Forbidden("only the host can update permissions")
	}

	if _, err := s.recordStore.MembershipById(ctx, params.TargetMembershipId); err != nil {
		if errors.Is(err, store.ErrMembershipNotFound) {
			return nil, domain.NotFound("membership not found")
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	capabilities := make([]domain.Capability, 0, len(params.Capabilities))
	for _, name := range params.Capabilities {
		c, ok := domain.ParseCapability(name)
		if !ok {
			return nil, domain.BadRequest(fmt.Sprintf("unknown capability: %s", name))
		}
		capabilities = append(capabilities, c)
	}

	mask := domain.ToMask(capabilities)
	if err := s.recordStore.UpdateMembershipCapabilities(ctx, params.TargetMembershipId, mask); err != nil {
		return nil, fmt.Errorf("failed to update membership capabilities: %w", err)
	}

	return domain.CapabilityNames(domain.FromMask(mask)), nil
}
