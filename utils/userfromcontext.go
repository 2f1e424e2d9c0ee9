package utils

import (
	"context"
	"net/http"

	"plateful/globals"
)

func GetUserIDFromContext(ctx context.Context) string {
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetUserIDFromRequest(r *http.Request) string {
	return GetUserIDFromContext(r.Context())
}
