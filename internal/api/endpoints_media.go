// Amora - Matchmaking Platform Go Client
// Copyright 2026 Amora Contributors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/amora-app/amora-go

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/goccy/go-json"

	"github.com/amora-app/amora-go/internal/models"
)

// ReelUpload describes one media upload. Content is held in memory; the
// gallery enforces a 5MB ceiling before this layer is reached.
type ReelUpload struct {
	FileName string
	MIME     string
	Content  []byte
	Caption  string
	Privacy  models.MediaPrivacy
}

// ProgressFunc receives upload progress as a percentage from 0 to 100.
// Values are monotonically non-decreasing and finish at 100 on success.
type ProgressFunc func(pct int)

// progressReader reports read progress through a callback. lastPct is
// shared across retry attempts so a re-sent body never reports a lower
// percentage than an earlier attempt did.
type progressReader struct {
	r        io.Reader
	total    int
	read     int
	lastPct  *int
	progress ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.read += n
	if p.progress != nil && p.total > 0 {
		pct := p.read * 100 / p.total
		if pct > 100 {
			pct = 100
		}
		if pct > *p.lastPct {
			*p.lastPct = pct
			p.progress(pct)
		}
	}
	return n, err
}

// uploadResponse wraps the created media item.
type uploadResponse struct {
	Envelope
	Reel models.MediaItem `json:"reel"`
}

// UploadReel sends the media file as multipart form data with its caption
// and privacy setting, reporting progress as the body is consumed.
func (c *Client) UploadReel(ctx context.Context, upload ReelUpload, progress ProgressFunc) (*models.MediaItem, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="media"; filename=%q`, upload.FileName))
	header.Set("Content-Type", upload.MIME)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create multipart: %w", err)
	}
	if _, err := part.Write(upload.Content); err != nil {
		return nil, fmt.Errorf("write media part: %w", err)
	}
	if err := writer.WriteField("caption", upload.Caption); err != nil {
		return nil, fmt.Errorf("write caption: %w", err)
	}
	if err := writer.WriteField("privacy", string(upload.Privacy)); err != nil {
		return nil, fmt.Errorf("write privacy: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart: %w", err)
	}

	payload := body.Bytes()
	lastPct := 0
	resp, err := c.doWithRetry(ctx, http.MethodPost, "/api/reel/upload", func() (io.Reader, string) {
		return &progressReader{
			r:        bytes.NewReader(payload),
			total:    len(payload),
			lastPct:  &lastPct,
			progress: progress,
		}, writer.FormDataContentType()
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, "/api/reel/upload"); err != nil {
		return nil, err
	}

	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if err := checkEnvelope(decoded.Success, decoded.Message); err != nil {
		return nil, err
	}
	return &decoded.Reel, nil
}

// reelsResponse wraps media listings.
type reelsResponse struct {
	Envelope
	Reels []models.MediaItem `json:"reels"`
}

// AllReels lists every reel visible to the current user.
func (c *Client) AllReels(ctx context.Context) ([]models.MediaItem, error) {
	var resp reelsResponse
	if err := c.do(ctx, http.MethodGet, "/api/reel/AllReels", nil, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return resp.Reels, nil
}

// MyReels lists the given user's own gallery.
func (c *Client) MyReels(ctx context.Context, userID string) ([]models.MediaItem, error) {
	var resp reelsResponse
	if err := c.do(ctx, http.MethodGet, "/api/reel/my-reels/"+userID, nil, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	return resp.Reels, nil
}

// deleteReelRequest names the item to remove.
type deleteReelRequest struct {
	ReelID string `json:"reelId"`
}

// DeleteReel permanently removes a gallery item.
func (c *Client) DeleteReel(ctx context.Context, reelID string) error {
	var resp Envelope
	if err := c.do(ctx, http.MethodDelete, "/api/reel/deleteReel",
		deleteReelRequest{ReelID: reelID}, &resp); err != nil {
		return err
	}
	return checkEnvelope(resp.Success, resp.Message)
}

// toggleResponse reports the new per-viewer state and aggregate count after
// a like or bookmark toggle.
type toggleResponse struct {
	Envelope
	Active bool `json:"active"`
	Count  int  `json:"count"`
}

// LikeReel toggles the viewer's like on an item.
func (c *Client) LikeReel(ctx context.Context, reelID string) (bool, int, error) {
	var resp toggleResponse
	if err := c.do(ctx, http.MethodPost, "/api/reel/"+reelID+"/like", nil, &resp); err != nil {
		return false, 0, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return false, 0, err
	}
	return resp.Active, resp.Count, nil
}

// BookmarkReel toggles the viewer's bookmark on an item.
func (c *Client) BookmarkReel(ctx context.Context, reelID string) (bool, int, error) {
	var resp toggleResponse
	if err := c.do(ctx, http.MethodPost, "/api/reel/"+reelID+"/bookmark", nil, &resp); err != nil {
		return false, 0, err
	}
	if err := checkEnvelope(resp.Success, resp.Message); err != nil {
		return false, 0, err
	}
	return resp.Active, resp.Count, nil
}
