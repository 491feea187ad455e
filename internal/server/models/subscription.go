package models

import "time"

// Subscription is a directed edge: SubscriberID follows ChannelID. At most
// one edge exists per pair.
type Subscription struct {
	SubscriberID string    `json:"subscriberId"`
	ChannelID    string    `json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ChannelProfile is computed on every request from the subscription edges
// and is never persisted.
type ChannelProfile struct {
	ID                string `json:"id"`
	UserName          string `json:"username"`
	Email             string `json:"email"`
	FullName          string `json:"fullName"`
	Avatar            string `json:"avatar"`
	CoverImage        string `json:"coverImage,omitempty"`
	SubscribersCount  int64  `json:"subscribersCount"`
	SubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}
