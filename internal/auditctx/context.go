package auditctx

import "context"

type requestIDKey struct{}
type ipAddressKey struct{}
type userAgentKey struct{}
type actorKey struct{}

type actor struct {
	actorType string
	actorID   string
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	value, _ := ctx.Value(requestIDKey{}).(string)
	return value
}

func WithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipAddressKey{}, ip)
}

func IPAddressFromContext(ctx context.Context) string {
	value, _ := ctx.Value(ipAddressKey{}).(string)
	return value
}

func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

func UserAgentFromContext(ctx context.Context) string {
	value, _ := ctx.Value(userAgentKey{}).(string)
	return value
}

func WithActor(ctx context.Context, actorType, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor{actorType: actorType, actorID: actorID})
}

func ActorFromContext(ctx context.Context) (string, string) {
	value, ok := ctx.Value(actorKey{}).(actor)
	if !ok {
		return "", ""
	}
	return value.actorType, value.actorID
}
