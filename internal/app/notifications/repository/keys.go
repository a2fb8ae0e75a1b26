package repository

import (
	"fmt"
	"time"
)

type Keys struct{}

// GetThreadKey identifies one processed state of a notification thread. The
// updated_at timestamp is part of the key so that new activity on an old
// thread is processed again.
func (k Keys) GetThreadKey(threadId string, updatedAt time.Time) string {
	return fmt.Sprintf("%s:%s:%d", ThreadPrefix, threadId, updatedAt.Unix())
}

func (k Keys) GetThreadPatternKey() string {
	return fmt.Sprintf("%s:*", ThreadPrefix)
}

func (k Keys) GetLastReadKey() string {
	return LastReadPrefix
}
