package core

import "context"

type ctxKey int

const tokenKey ctxKey = iota

// ContextWithToken attaches the session bearer token to ctx; repositories read it back for every backend call.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
