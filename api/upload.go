package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
)

// FilePart is a named file payload for a multipart request.
type FilePart struct {
	Filename string
	Reader   io.Reader
}

// VideoUpload describes a new video. Video is required; Thumbnail is
// optional. The channel is always the authenticated user's own.
type VideoUpload struct {
	Title       string
	Description string
	Duration    string
	Video       FilePart
	Thumbnail   *FilePart
}

// VideoEdit describes changes to an existing video. Nil fields are left
// untouched server-side; Thumbnail is optional.
type VideoEdit struct {
	Title       *string
	Description *string
	Duration    *string
	Thumbnail   *FilePart
}

// ProfileUpdate describes profile changes. All fields are optional.
type ProfileUpdate struct {
	Bio          *string
	ProfileImage *FilePart
	BannerImage  *FilePart
}

// multipartBody encodes fields and files into a multipart payload and
// returns the body along with its boundary-carrying content type. The
// content type must reach the transport untouched.
func multipartBody(fields map[string]string, files map[string]FilePart) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}
	for name, file := range files {
		part, err := writer.CreateFormFile(name, file.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", name, err)
		}
		if _, err := io.Copy(part, file.Reader); err != nil {
			return nil, "", fmt.Errorf("copy file part %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

// UploadVideo uploads a new video and returns the server-assigned id.
func (c *Client) UploadVideo(ctx context.Context, up *VideoUpload) (int, error) {
	fields := map[string]string{
		"title":       up.Title,
		"description": up.Description,
		"duration":    up.Duration,
	}
	if fields["duration"] == "" {
		fields["duration"] = "0:00"
	}

	files := map[string]FilePart{"video": up.Video}
	if up.Thumbnail != nil {
		files["thumbnail"] = *up.Thumbnail
	}

	body, contentType, err := multipartBody(fields, files)
	if err != nil {
		return 0, err
	}

	resp, err := c.gw.Multipart(ctx, nethttp.MethodPost, "/videos/upload", contentType, body)
	if err != nil {
		return 0, err
	}
	var result struct {
		VideoID int `json:"video_id"`
	}
	if err := decode(resp, &result); err != nil {
		return 0, err
	}
	return result.VideoID, nil
}

// EditVideo updates a video's metadata and optional thumbnail, returning the
// server's view of the changed fields. The server enforces ownership (403).
func (c *Client) EditVideo(ctx context.Context, id int, edit *VideoEdit) (*VideoEditResult, error) {
	fields := make(map[string]string)
	if edit.Title != nil {
		fields["title"] = *edit.Title
	}
	if edit.Description != nil {
		fields["description"] = *edit.Description
	}
	if edit.Duration != nil {
		fields["duration"] = *edit.Duration
	}

	files := make(map[string]FilePart)
	if edit.Thumbnail != nil {
		files["thumbnail"] = *edit.Thumbnail
	}

	body, contentType, err := multipartBody(fields, files)
	if err != nil {
		return nil, err
	}

	resp, err := c.gw.Multipart(ctx, nethttp.MethodPut, fmt.Sprintf("/videos/%d", id), contentType, body)
	if err != nil {
		return nil, err
	}
	var result struct {
		Video VideoEditResult `json:"video"`
	}
	if err := decode(resp, &result); err != nil {
		return nil, err
	}
	return &result.Video, nil
}

// UpdateProfile changes the user's bio and images.
func (c *Client) UpdateProfile(ctx context.Context, update *ProfileUpdate) (*ProfileInfo, error) {
	fields := make(map[string]string)
	if update.Bio != nil {
		fields["bio"] = *update.Bio
	}

	files := make(map[string]FilePart)
	if update.ProfileImage != nil {
		files["profileImage"] = *update.ProfileImage
	}
	if update.BannerImage != nil {
		files["bannerImage"] = *update.BannerImage
	}

	body, contentType, err := multipartBody(fields, files)
	if err != nil {
		return nil, err
	}

	resp, err := c.gw.Multipart(ctx, nethttp.MethodPut, "/profile/update", contentType, body)
	if err != nil {
		return nil, err
	}
	var info ProfileInfo
	if err := decode(resp, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
