package engagementdto

// ToggleLikeResult kết quả toggle like
type ToggleLikeResult struct {
	IsLiked bool `json:"isLiked"`
}

// ToggleSubscriptionResult kết quả toggle subscribe
type ToggleSubscriptionResult struct {
	IsSubscribed bool `json:"isSubscribed"`
}

// SubscriberCountResult số người đăng ký của một channel
type SubscriberCountResult struct {
	SubscribersCount int64 `json:"subscribersCount"`
}
