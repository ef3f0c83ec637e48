package api

// Video is a catalog entry. The list projection omits videoUrl-adjacent
// detail fields; GetVideo fills them in. Videos are only ever mutated by
// server responses, never invented locally.
type Video struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Channel         string `json:"channel"`
	Thumbnail       string `json:"thumbnail,omitempty"`
	Views           int    `json:"views"`
	UploadTime      string `json:"uploadTime"`
	UploadDate      string `json:"uploadDate,omitempty"`
	Duration        string `json:"duration"`
	Likes           int    `json:"likes"`
	Dislikes        int    `json:"dislikes"`
	VideoURL        string `json:"videoUrl,omitempty"`
	SubscriberCount int    `json:"subscriberCount,omitempty"`
}

// Comment is a single comment on a video. The server orders comment lists
// newest-first.
type Comment struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// LoginResult is the response to a successful login.
type LoginResult struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// VerifyResult is the response to a token liveness check.
type VerifyResult struct {
	Valid bool `json:"valid"`
	User  struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

// ReactionResult carries the authoritative counts and flags after a
// like/dislike toggle. IsLiked is set by the like endpoint, IsDisliked by
// the dislike endpoint.
type ReactionResult struct {
	Likes      int  `json:"likes"`
	Dislikes   int  `json:"dislikes"`
	IsLiked    bool `json:"isLiked"`
	IsDisliked bool `json:"isDisliked"`
}

// UserProfile is a channel's public profile.
type UserProfile struct {
	ID              int     `json:"id"`
	Username        string  `json:"username"`
	SubscriberCount int     `json:"subscriberCount"`
	IsSubscribed    bool    `json:"isSubscribed"`
	Videos          []Video `json:"videos"`
	ProfileImage    string  `json:"profileImage,omitempty"`
	BannerImage     string  `json:"bannerImage,omitempty"`
	Bio             string  `json:"bio,omitempty"`
	VideoCount      int     `json:"videoCount"`
}

// UserSummary is a user search result.
type UserSummary struct {
	ID              int    `json:"id"`
	Username        string `json:"username"`
	SubscriberCount int    `json:"subscriberCount"`
}

// ProfileInfo is the response to a profile update.
type ProfileInfo struct {
	ProfileImage string `json:"profileImage,omitempty"`
	BannerImage  string `json:"bannerImage,omitempty"`
	Bio          string `json:"bio,omitempty"`
}

// VideoEditResult is the partial video record returned by an edit.
type VideoEditResult struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Duration    string `json:"duration"`
}
