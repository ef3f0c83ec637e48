package store

import (
	"context"
	"log/slog"
	"sync"

	"vidtube/api"
)

// CatalogBackend is the slice of the API the catalog needs. *api.Client
// satisfies it.
type CatalogBackend interface {
	ListVideos(ctx context.Context, query string) ([]api.Video, error)
	GetVideo(ctx context.Context, id int) (*api.Video, error)
}

// Patch is a partial, locally known video change. Nil fields are left alone.
// Applying the same patch twice yields the same record.
type Patch struct {
	Title       *string
	Description *string
	Duration    *string
	Thumbnail   *string
	Likes       *int
	Dislikes    *int
}

// Catalog is the in-memory working set of video records: the current list
// plus any detail records merged into it. It never persists anything; the
// server is the source of truth and the cache is rebuilt on every list load.
type Catalog struct {
	backend CatalogBackend
	logger  *slog.Logger

	mu         sync.RWMutex
	videos     []api.Video
	index      map[int]int // video id -> position in videos
	currentID  int
	hasCurrent bool

	replaceHooks []func()
}

// NewCatalog creates an empty catalog.
func NewCatalog(backend CatalogBackend, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		backend: backend,
		logger:  logger,
		index:   make(map[int]int),
	}
}

// OnListReplace registers a hook invoked whenever LoadList replaces the
// working set. Dependent stores use it to drop per-video overrides that the
// fresh server records supersede.
func (c *Catalog) OnListReplace(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaceHooks = append(c.replaceHooks, fn)
}

// LoadList fetches the video list (optionally filtered by query) and replaces
// the working set wholesale. On failure the set is cleared rather than left
// stale: an empty list is honest, an outdated one is not.
func (c *Catalog) LoadList(ctx context.Context, query string) ([]api.Video, error) {
	videos, err := c.backend.ListVideos(ctx, query)
	if err != nil {
		c.mu.Lock()
		c.videos = nil
		c.index = make(map[int]int)
		c.mu.Unlock()
		c.notifyReplace()
		return nil, err
	}

	c.mu.Lock()
	c.videos = videos
	c.index = make(map[int]int, len(videos))
	for i, v := range videos {
		c.index[v.ID] = i
	}
	c.mu.Unlock()
	c.notifyReplace()

	c.logger.Debug("video list loaded", "count", len(videos), "query", query)
	return c.Videos(), nil
}

func (c *Catalog) notifyReplace() {
	c.mu.RLock()
	hooks := make([]func(), len(c.replaceHooks))
	copy(hooks, c.replaceHooks)
	c.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

// LoadDetail fetches one video's full record, merges it into the working set
// by id, and marks it as the currently open video. The detail record replaces
// the list entry: mutations arriving in a different order resolve by
// last-write-wins on the whole record.
func (c *Catalog) LoadDetail(ctx context.Context, id int) (*api.Video, error) {
	video, err := c.backend.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.mergeLocked(*video)
	c.currentID = id
	c.hasCurrent = true
	c.mu.Unlock()

	snapshot := *video
	return &snapshot, nil
}

// ClearCurrent marks no video as open.
func (c *Catalog) ClearCurrent() {
	c.mu.Lock()
	c.currentID = 0
	c.hasCurrent = false
	c.mu.Unlock()
}

// Current returns the currently open video, if any.
func (c *Catalog) Current() (api.Video, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.hasCurrent {
		return api.Video{}, false
	}
	i, ok := c.index[c.currentID]
	if !ok {
		return api.Video{}, false
	}
	return c.videos[i], true
}

// Get returns the cached record for a video id.
func (c *Catalog) Get(id int) (api.Video, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[id]
	if !ok {
		return api.Video{}, false
	}
	return c.videos[i], true
}

// Videos returns a copy of the working set in list order.
func (c *Catalog) Videos() []api.Video {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]api.Video, len(c.videos))
	copy(out, c.videos)
	return out
}

// ApplyPatch merges a partial change into the cached record for id, if
// present. Unknown ids are ignored; list loads will pick the change up.
func (c *Catalog) ApplyPatch(id int, patch Patch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return
	}
	v := &c.videos[i]
	if patch.Title != nil {
		v.Title = *patch.Title
	}
	if patch.Description != nil {
		v.Description = *patch.Description
	}
	if patch.Duration != nil {
		v.Duration = *patch.Duration
	}
	if patch.Thumbnail != nil {
		v.Thumbnail = *patch.Thumbnail
	}
	if patch.Likes != nil {
		v.Likes = *patch.Likes
	}
	if patch.Dislikes != nil {
		v.Dislikes = *patch.Dislikes
	}
}

// Remove drops a video from the working set, e.g. after deletion.
func (c *Catalog) Remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return
	}
	c.videos = append(c.videos[:i], c.videos[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.videos); j++ {
		c.index[c.videos[j].ID] = j
	}
	if c.hasCurrent && c.currentID == id {
		c.currentID = 0
		c.hasCurrent = false
	}
}

func (c *Catalog) mergeLocked(video api.Video) {
	if i, ok := c.index[video.ID]; ok {
		c.videos[i] = video
		return
	}
	c.videos = append(c.videos, video)
	c.index[video.ID] = len(c.videos) - 1
}
