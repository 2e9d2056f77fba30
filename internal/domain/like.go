package domain

import "time"

// Like is a one-directional interest marker. At most one like exists per
// (FromUserID, ToUserID) pair; repeated sends are absorbed by the store.
type Like struct {
	FromUserID string
	ToUserID   string
	CreatedAt  time.Time
}
