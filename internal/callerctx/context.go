package callerctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Caller is the set of authorization facts resolved for a request. The
// resolver only supplies facts; each action decides what it requires.
type Caller struct {
	UserID             snowflake.ID
	IsAdmin            bool
	CreatorProfileID   *snowflake.ID
	CreatorDisplayName string
}

// IsCreator reports whether the caller has an active creator profile.
func (c Caller) IsCreator() bool {
	return c.CreatorProfileID != nil && *c.CreatorProfileID != 0
}

type callerKey struct{}

func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(Caller)
	return caller, ok
}
