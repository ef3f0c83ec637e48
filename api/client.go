// Package api exposes typed wrappers for every backend endpoint. It decodes
// responses, classifies failures into the http package taxonomy, and retries
// nothing except anonymous list reads.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"

	"vidtube/http"
	"vidtube/internal/retry"
)

// Client is a typed view of the backend REST contract. All methods are safe
// for concurrent use.
type Client struct {
	gw    *http.Gateway
	retry retry.Config
}

// New creates an API client on top of the gateway. retryCfg governs the
// anonymous catalog list read only; mutations are never retried.
func New(gw *http.Gateway, retryCfg retry.Config) *Client {
	return &Client{gw: gw, retry: retryCfg}
}

// decode classifies the response and unmarshals a 2xx body into v (when v is
// non-nil).
func decode(resp *http.Response, v any) error {
	if err := http.ErrorFromResponse(resp); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// --- Videos ---

// ListVideos fetches the video list, optionally filtered by a text query.
// Transient failures (network, 5xx) are retried with backoff; the list read
// is idempotent.
func (c *Client) ListVideos(ctx context.Context, query string) ([]Video, error) {
	path := "/videos"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}

	var videos []Video
	err := retry.Do(ctx, c.retry, http.IsTransient, func(ctx context.Context) error {
		resp, err := c.gw.Request(ctx, nethttp.MethodGet, path, nil)
		if err != nil {
			return err
		}
		return decode(resp, &videos)
	})
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// GetVideo fetches one video's full record. Not retried: the server
// increments the view count on every call.
func (c *Client) GetVideo(ctx context.Context, id int) (*Video, error) {
	resp, err := c.gw.Request(ctx, nethttp.MethodGet, fmt.Sprintf("/videos/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var video Video
	if err := decode(resp, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// DeleteVideo removes a video. The server enforces ownership (403).
func (c *Client) DeleteVideo(ctx context.Context, id int) error {
	resp, err := c.gw.Request(ctx, nethttp.MethodDelete, fmt.Sprintf("/videos/%d", id), nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// --- Reactions ---

type reactionRequest struct {
	UserID int `json:"userId"`
}

// Like toggles the current user's like on a video and returns the
// authoritative counts and flag.
func (c *Client) Like(ctx context.Context, videoID, userID int) (*ReactionResult, error) {
	return c.react(ctx, fmt.Sprintf("/videos/%d/like", videoID), userID)
}

// Dislike toggles the current user's dislike on a video and returns the
// authoritative counts and flag.
func (c *Client) Dislike(ctx context.Context, videoID, userID int) (*ReactionResult, error) {
	return c.react(ctx, fmt.Sprintf("/videos/%d/dislike", videoID), userID)
}

func (c *Client) react(ctx context.Context, path string, userID int) (*ReactionResult, error) {
	resp, err := c.gw.Request(ctx, nethttp.MethodPost, path, reactionRequest{UserID: userID})
	if err != nil {
		return nil, err
	}
	var result ReactionResult
	if err := decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// --- Comments ---

// ListComments fetches a video's comments, newest first.
func (c *Client) ListComments(ctx context.Context, videoID int) ([]Comment, error) {
	resp, err := c.gw.Request(ctx, nethttp.MethodGet, fmt.Sprintf("/videos/%d/comments", videoID), nil)
	if err != nil {
		return nil, err
	}
	var comments []Comment
	if err := decode(resp, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

type createCommentRequest struct {
	UserID  int    `json:"userId"`
	Content string `json:"content"`
}

type createCommentResponse struct {
	Message string  `json:"message"`
	Comment Comment `json:"comment"`
}

// CreateComment posts a comment and returns the server-assigned record.
func (c *Client) CreateComment(ctx context.Context, videoID, userID int, content string) (*Comment, error) {
	resp, err := c.gw.Request(ctx, nethttp.MethodPost, fmt.Sprintf("/videos/%d/comments", videoID),
		createCommentRequest{UserID: userID, Content: content})
	if err != nil {
		return nil, err
	}
	var result createCommentResponse
	if err := decode(resp, &result); err != nil {
		return nil, err
	}
	return &result.Comment, nil
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

// UpdateComment changes a comment's content. The server enforces ownership.
func (c *Client) UpdateComment(ctx context.Context, commentID int, content string) error {
	resp, err := c.gw.Request(ctx, nethttp.MethodPut, fmt.Sprintf("/comments/%d", commentID),
		updateCommentRequest{Content: content})
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// DeleteComment removes a comment. The server enforces ownership (403).
func (c *Client) DeleteComment(ctx context.Context, commentID int) error {
	resp, err := c.gw.Request(ctx, nethttp.MethodDelete, fmt.Sprintf("/comments/%d", commentID), nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// --- Auth ---

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	resp, err := c.gw.Request(ctx, nethttp.MethodPost, "/login",
		authRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	var result LoginResult
	if err := decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Signup registers a new account. The caller logs in separately afterwards.
func (c *Client) Signup(ctx context.Context, username, password string) error {
	resp, err := c.gw.Request(ctx, nethttp.MethodPost, "/signup",
		authRequest{Username: username, Password: password})
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// VerifyToken checks whether the current credential is still accepted.
func (c *Client) VerifyToken(ctx context.Context) (*VerifyResult, error) {
	resp, err := c.gw.Request(ctx, nethttp.MethodGet, "/verify-token", nil)
	if err != nil {
		return nil, err
	}
	var result VerifyResult
	if err := decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// --- Users and subscriptions ---

// GetUser fetches a channel's public profile.
func (c *Client) GetUser(ctx context.Context, username string) (*UserProfile, error) {
	resp, err := c.gw.Request(ctx, nethttp.MethodGet, "/users/"+url.PathEscape(username), nil)
	if err != nil {
		return nil, err
	}
	var profile UserProfile
	if err := decode(resp, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SearchUsers searches users by name; an empty query returns recent signups.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]UserSummary, error) {
	path := "/users"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	resp, err := c.gw.Request(ctx, nethttp.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var users []UserSummary
	if err := decode(resp, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SubscriberCount fetches a channel's subscriber count.
func (c *Client) SubscriberCount(ctx context.Context, channel string) (int, error) {
	resp, err := c.gw.Request(ctx, nethttp.MethodGet,
		"/channels/"+url.PathEscape(channel)+"/subscribers/count", nil)
	if err != nil {
		return 0, err
	}
	var result struct {
		Count int `json:"count"`
	}
	if err := decode(resp, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

type subscribeRequest struct {
	UserID      int    `json:"userId"`
	ChannelName string `json:"channelName"`
}

// Subscribe toggles a subscription and reports whether the user is now
// subscribed.
func (c *Client) Subscribe(ctx context.Context, userID int, channel string) (bool, error) {
	resp, err := c.gw.Request(ctx, nethttp.MethodPost, "/subscribe",
		subscribeRequest{UserID: userID, ChannelName: channel})
	if err != nil {
		return false, err
	}
	var result struct {
		Subscribed bool `json:"subscribed"`
	}
	if err := decode(resp, &result); err != nil {
		return false, err
	}
	return result.Subscribed, nil
}

// ListSubscriptions fetches the full set of channels the user follows.
func (c *Client) ListSubscriptions(ctx context.Context, userID int) ([]string, error) {
	resp, err := c.gw.Request(ctx, nethttp.MethodGet, fmt.Sprintf("/subscriptions/%d", userID), nil)
	if err != nil {
		return nil, err
	}
	var channels []string
	if err := decode(resp, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// --- Profile ---

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword rotates the account password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	resp, err := c.gw.Request(ctx, nethttp.MethodPut, "/profile/change-password",
		changePasswordRequest{CurrentPassword: current, NewPassword: next})
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

// DeleteAccount removes the account after password confirmation.
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	resp, err := c.gw.Request(ctx, nethttp.MethodDelete, "/profile/delete-account",
		deleteAccountRequest{Password: password})
	if err != nil {
		return err
	}
	return decode(resp, nil)
}
