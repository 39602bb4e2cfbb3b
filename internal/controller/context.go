package controller

import (
	"context"

	"github.com/trackroom/server/internal/domain"
)

type contextKey int

const memberCtxKey contextKey = iota

func (c controller) memberFromCtx(ctx context.Context) (domain.AuthenticatedMember, bool) {
	member, ok := ctx.Value(memberCtxKey).(domain.AuthenticatedMember)

	return member, ok
}
