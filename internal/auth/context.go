package auth

import "context"

type contextKey struct{}

// AuthContext carries the resolved identity and membership for a request.
type AuthContext struct {
	UserID     string
	Email      string
	Membership string
	SessionID  int64
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) string {
	ac, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return ac.UserID
}

// IsMember reports whether the request belongs to a paying member.
func IsMember(ctx context.Context) bool {
	ac, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return ac.Membership != "" && ac.Membership != "free"
}
