package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix  = "user:%s"
	GroupKeyPrefix = "group:%s"
	PostKeyPrefix  = "post:%d"
	PageKeyPrefix  = "page:%s"
)

const (
	UserTTL  = 5 * time.Minute
	GroupTTL = 10 * time.Minute
	PostTTL  = 30 * time.Minute
	// PageTTL bounds how stale a cached feed page may be. Writes are not
	// reflected until the entry expires or is explicitly invalidated.
	PageTTL = 20 * time.Second
)

func UserKey(username string) string {
	return fmt.Sprintf(UserKeyPrefix, username)
}

func GroupKey(slug string) string {
	return fmt.Sprintf(GroupKeyPrefix, slug)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// PageKey derives the page cache key from the full request URI, query string
// included, so distinct pages of the same listing cache independently.
func PageKey(requestURI string) string {
	return fmt.Sprintf(PageKeyPrefix, requestURI)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, username string) {
	Invalidate(ctx, UserKey(username))
}

func InvalidateGroup(ctx context.Context, slug string) {
	Invalidate(ctx, GroupKey(slug))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}
