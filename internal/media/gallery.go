// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

// Package media manages the user's gallery: uploads with client-side
// validation and progress, filtered listings with counts, deletion, and the
// optimistic like/bookmark toggles.
package media

import (
	"context"
	"strings"
	"sync"

	"github.com/amora-app/amora-go/internal/api"
	"github.com/amora-app/amora-go/internal/logging"
	"github.com/amora-app/amora-go/internal/models"
	"github.com/amora-app/amora-go/internal/validation"
)

// Filter selects which gallery items a listing shows.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterImages Filter = "images"
	FilterVideos Filter = "videos"
)

// UploadResult is the outcome of one upload attempt.
type UploadResult struct {
	Success bool
	Message string
	Item    *models.MediaItem
}

// ToggleResult is the settled state of a like or bookmark toggle.
type ToggleResult struct {
	Success bool
	Message string
	Active  bool
	Count   int
}

// Gallery is the media screen's data source. Safe for concurrent use.
type Gallery struct {
	client *api.Client
	selfID func() string

	mu    sync.RWMutex
	items []models.MediaItem
}

// NewGallery builds a Gallery for the current identity.
func NewGallery(client *api.Client, selfID func() string) *Gallery {
	return &Gallery{client: client, selfID: selfID}
}

// LoadMine replaces the gallery with the current user's items.
func (g *Gallery) LoadMine(ctx context.Context) error {
	items, err := g.client.MyReels(ctx, g.selfID())
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.items = items
	g.mu.Unlock()
	return nil
}

// LoadAll replaces the gallery with the shared feed of everyone's public
// items.
func (g *Gallery) LoadAll(ctx context.Context) error {
	items, err := g.client.AllReels(ctx)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.items = items
	g.mu.Unlock()
	return nil
}

// Items returns the loaded items narrowed by filter. Filtering is local;
// switching tabs never refetches.
func (g *Gallery) Items(filter Filter) []models.MediaItem {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var matched []models.MediaItem
	for _, item := range g.items {
		switch filter {
		case FilterImages:
			if item.MediaType != models.MediaImage {
				continue
			}
		case FilterVideos:
			if item.MediaType != models.MediaVideo {
				continue
			}
		}
		matched = append(matched, item)
	}
	return matched
}

// Stats counts the loaded items per type.
func (g *Gallery) Stats() models.GalleryStats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := models.GalleryStats{Total: len(g.items)}
	for _, item := range g.items {
		switch item.MediaType {
		case models.MediaImage:
			stats.Images++
		case models.MediaVideo:
			stats.Videos++
		}
	}
	return stats
}

// Upload validates the file locally, then sends it. Size and type are
// checked before any bytes travel; a file that would be rejected server-side
// never starts a transfer. The confirmed item is prepended to the gallery.
func (g *Gallery) Upload(ctx context.Context, upload api.ReelUpload, progress api.ProgressFunc) UploadResult {
	if len(upload.Content) == 0 {
		return UploadResult{Message: "file is empty"}
	}
	if len(upload.Content) > validation.MaxUploadSize {
		return UploadResult{Message: "file exceeds the 5MB limit"}
	}
	input := struct {
		Type    string `validate:"uploadmime"`
		Privacy string `validate:"omitempty,mediaprivacy"`
	}{Type: upload.MIME, Privacy: string(upload.Privacy)}
	if err := validation.ValidateStruct(&input); err != nil {
		return UploadResult{Message: err.Error()}
	}

	item, err := g.client.UploadReel(ctx, upload, progress)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("file", upload.FileName).Msg("upload failed")
		return UploadResult{Message: api.ServerMessage(err, "upload failed")}
	}

	g.mu.Lock()
	g.items = append([]models.MediaItem{*item}, g.items...)
	g.mu.Unlock()
	return UploadResult{Success: true, Item: item}
}

// Delete removes an item. The local list shrinks only after the server
// confirms; a failed delete leaves the gallery untouched.
func (g *Gallery) Delete(ctx context.Context, itemID string) error {
	if err := g.client.DeleteReel(ctx, itemID); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for i, item := range g.items {
		if item.ID == itemID {
			g.items = append(g.items[:i], g.items[i+1:]...)
			break
		}
	}
	return nil
}

// Like toggles the viewer's like optimistically: the item flips at once,
// then the server's answer either reconciles the count or rolls the flip
// back.
func (g *Gallery) Like(ctx context.Context, itemID string) ToggleResult {
	return g.toggle(ctx, itemID, "like")
}

// Bookmark toggles the viewer's bookmark, same contract as Like.
func (g *Gallery) Bookmark(ctx context.Context, itemID string) ToggleResult {
	return g.toggle(ctx, itemID, "bookmark")
}

func (g *Gallery) toggle(ctx context.Context, itemID, kind string) ToggleResult {
	prior, ok := g.flipLocal(itemID, kind)
	if !ok {
		return ToggleResult{Message: "item not found"}
	}

	var (
		active bool
		count  int
		err    error
	)
	if kind == "like" {
		active, count, err = g.client.LikeReel(ctx, itemID)
	} else {
		active, count, err = g.client.BookmarkReel(ctx, itemID)
	}
	if err != nil {
		g.restoreLocal(itemID, kind, prior)
		logging.Ctx(ctx).Warn().Err(err).Str("item", itemID).Msg(kind + " toggle failed")
		return ToggleResult{Message: api.ServerMessage(err, "could not update "+kind)}
	}

	g.reconcile(itemID, kind, active, count)
	return ToggleResult{Success: true, Active: active, Count: count}
}

// flipLocal applies the optimistic flip and returns the prior state.
func (g *Gallery) flipLocal(itemID, kind string) (bool, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.items {
		if g.items[i].ID != itemID {
			continue
		}
		if kind == "like" {
			prior := g.items[i].Liked
			g.items[i].Liked = !prior
			if g.items[i].Liked {
				g.items[i].Likes++
			} else if g.items[i].Likes > 0 {
				g.items[i].Likes--
			}
			return prior, true
		}
		prior := g.items[i].Bookmarked
		g.items[i].Bookmarked = !prior
		return prior, true
	}
	return false, false
}

// restoreLocal rolls the flip back after a rejected toggle.
func (g *Gallery) restoreLocal(itemID, kind string, prior bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.items {
		if g.items[i].ID != itemID {
			continue
		}
		if kind == "like" {
			if g.items[i].Liked && !prior {
				if g.items[i].Likes > 0 {
					g.items[i].Likes--
				}
			} else if !g.items[i].Liked && prior {
				g.items[i].Likes++
			}
			g.items[i].Liked = prior
			return
		}
		g.items[i].Bookmarked = prior
		return
	}
}

// reconcile installs the server's authoritative state and count.
func (g *Gallery) reconcile(itemID, kind string, active bool, count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.items {
		if g.items[i].ID != itemID {
			continue
		}
		if kind == "like" {
			g.items[i].Liked = active
			g.items[i].Likes = count
			return
		}
		g.items[i].Bookmarked = active
		return
	}
}

// MIMEForFileName guesses the upload type from the extension when the
// caller has no better source.
func MIMEForFileName(name string) string {
	switch strings.ToLower(pathExt(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	default:
		return ""
	}
}

func pathExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
