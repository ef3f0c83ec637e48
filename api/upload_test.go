package api

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"strings"
	"testing"
)

func TestUploadVideo(t *testing.T) {
	client, cleanup := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() error = %v", err)
		}
		if got := r.FormValue("title"); got != "My Video" {
			t.Errorf("title = %q, want My Video", got)
		}
		if got := r.FormValue("duration"); got != "0:00" {
			t.Errorf("duration = %q, want default 0:00", got)
		}
		file, header, err := r.FormFile("video")
		if err != nil {
			t.Fatalf("FormFile(video) error = %v", err)
		}
		defer file.Close()
		if header.Filename != "clip.mp4" {
			t.Errorf("filename = %q, want clip.mp4", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "fake video bytes" {
			t.Errorf("file content = %q", data)
		}

		w.WriteHeader(nethttp.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"message": "ok", "video_id": 31})
	}))
	defer cleanup()

	id, err := client.UploadVideo(context.Background(), &VideoUpload{
		Title: "My Video",
		Video: FilePart{Filename: "clip.mp4", Reader: strings.NewReader("fake video bytes")},
	})
	if err != nil {
		t.Fatalf("UploadVideo() error = %v", err)
	}
	if id != 31 {
		t.Errorf("id = %d, want 31", id)
	}
}

func TestEditVideo_OnlyChangedFields(t *testing.T) {
	client, cleanup := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPut || r.URL.Path != "/videos/31" {
			t.Errorf("%s %s, want PUT /videos/31", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() error = %v", err)
		}
		if got := r.FormValue("title"); got != "New Title" {
			t.Errorf("title = %q, want New Title", got)
		}
		if _, ok := r.MultipartForm.Value["description"]; ok {
			t.Error("description sent, want omitted when unchanged")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": "ok",
			"video":   VideoEditResult{ID: 31, Title: "New Title", Duration: "5:00"},
		})
	}))
	defer cleanup()

	title := "New Title"
	result, err := client.EditVideo(context.Background(), 31, &VideoEdit{Title: &title})
	if err != nil {
		t.Fatalf("EditVideo() error = %v", err)
	}
	if result.Title != "New Title" || result.ID != 31 {
		t.Errorf("result = %+v", result)
	}
}

func TestUpdateProfile(t *testing.T) {
	client, cleanup := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() error = %v", err)
		}
		if got := r.FormValue("bio"); got != "hello" {
			t.Errorf("bio = %q, want hello", got)
		}
		if _, _, err := r.FormFile("profileImage"); err != nil {
			t.Errorf("FormFile(profileImage) error = %v", err)
		}
		json.NewEncoder(w).Encode(ProfileInfo{Bio: "hello", ProfileImage: "/img/a.png"})
	}))
	defer cleanup()

	bio := "hello"
	info, err := client.UpdateProfile(context.Background(), &ProfileUpdate{
		Bio:          &bio,
		ProfileImage: &FilePart{Filename: "a.png", Reader: strings.NewReader("png")},
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if info.ProfileImage != "/img/a.png" {
		t.Errorf("info = %+v", info)
	}
}
