package cache

import (
	"context"
	"fmt"
	"time"
)

// Work lists are rebuilt cheaply, so the day cache keeps a short TTL
// and is dropped whenever an assignment changes.
const workListCacheTTL = 5 * time.Minute

func workListKey(tenantID, userID uint, day string) string {
	return fmt.Sprintf("worklist:%d:%d:%s", tenantID, userID, day)
}

// GetWorkList reads a user's cached daily work list; day is formatted
// as 2006-01-02
func GetWorkList(ctx context.Context, tenantID, userID uint, day string, dest interface{}) (bool, error) {
	if userID == 0 || day == "" {
		return false, nil
	}
	return GetJSON(ctx, workListKey(tenantID, userID, day), dest)
}

// SetWorkList caches a user's daily work list
func SetWorkList(ctx context.Context, tenantID, userID uint, day string, value interface{}) error {
	if userID == 0 || day == "" {
		return nil
	}
	return SetJSON(ctx, workListKey(tenantID, userID, day), value, workListCacheTTL)
}

// DelWorkList drops a user's cached daily work list
func DelWorkList(ctx context.Context, tenantID, userID uint, day string) error {
	if userID == 0 || day == "" {
		return nil
	}
	return Del(ctx, workListKey(tenantID, userID, day))
}
