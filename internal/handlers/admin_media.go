// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"blogavel/internal/models"
	"blogavel/internal/pagination"
)

const (
	// maxUploadSize is the maximum allowed file upload size (50 MB).
	maxUploadSize = 50 << 20

	// thumbMaxWidth is the maximum thumbnail width in pixels.
	thumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000
)

// allowedMediaTypes defines MIME types accepted for upload.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
}

// thumbableTypes are image types that support thumbnail generation.
// GIF is excluded to preserve animation; SVG is vector.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// MediaList handles GET /media: one page of uploads, newest first.
func (a *Admin) MediaList(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromQuery(r.URL.Query(), adminMediaPerPage)
	items, total, err := a.media.List(params)
	if err != nil {
		respondServerError(w, "list media failed", err)
		return
	}
	if items == nil {
		items = []models.Media{}
	}

	for i := range items {
		a.resolveMediaURL(&items[i])
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": items,
		"meta": pagination.NewMeta(params, total, a.requestURL(r)),
	})
}

// MediaShow handles GET /media/{id}.
func (a *Admin) MediaShow(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	media, err := a.media.FindByID(id)
	if err != nil {
		respondServerError(w, "find media failed", err)
		return
	}
	if media == nil {
		respondNotFound(w)
		return
	}

	a.resolveMediaURL(media)
	writeJSON(w, http.StatusOK, map[string]any{"media": media})
}

// MediaUpload handles POST /media: multipart upload to S3 with thumbnail
// generation for raster images.
func (a *Admin) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		respondMessage(w, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}

	// Limit request body to maxUploadSize + some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondMessage(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 50 MB.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondValidation(w, map[string][]string{"file": {"The file field is required."}})
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		respondMessage(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 50 MB.")
		return
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		respondServerError(w, "read upload failed", err)
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])

	// SVG detection: DetectContentType returns text/xml or application/xml for SVGs.
	if strings.HasSuffix(strings.ToLower(header.Filename), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		contentType = "image/svg+xml"
	}

	if !allowedMediaTypes[contentType] {
		respondValidation(w, map[string][]string{
			"file": {fmt.Sprintf("File type %q is not allowed.", contentType)},
		})
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		respondServerError(w, "rewind upload failed", err)
		return
	}

	// Unique object key: media/<year>/<month>/<uuid><ext>.
	now := time.Now()
	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	fileID := uuid.New().String()
	objectKey := fmt.Sprintf("media/%d/%02d/%s%s", now.Year(), now.Month(), fileID, ext)

	// The whole file is needed in memory anyway for thumbnailing.
	fileBytes, err := io.ReadAll(file)
	if err != nil {
		respondServerError(w, "read upload failed", err)
		return
	}

	ctx := r.Context()
	if err := a.storageClient.Upload(ctx, objectKey, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		respondServerError(w, "s3 upload failed", err)
		return
	}

	// Thumbnail is best-effort; the upload stands without one.
	var thumbKey *string
	if thumbableTypes[contentType] {
		thumbData, err := generateThumbnail(bytes.NewReader(fileBytes), thumbMaxWidth)
		if err != nil {
			slog.Warn("thumbnail generation failed", "error", err, "key", objectKey)
		} else if thumbData != nil {
			tk := fmt.Sprintf("media/%d/%02d/%s_thumb.jpg", now.Year(), now.Month(), fileID)
			if err := a.storageClient.Upload(ctx, tk, "image/jpeg", bytes.NewReader(thumbData), int64(len(thumbData))); err != nil {
				slog.Warn("thumbnail upload failed", "error", err, "key", tk)
			} else {
				thumbKey = &tk
			}
		}
	}

	media := &models.Media{
		Disk:      a.storageClient.Bucket(),
		Path:      objectKey,
		ThumbPath: thumbKey,
		MimeType:  contentType,
		SizeBytes: int64(len(fileBytes)),
	}

	created, err := a.media.Create(media)
	if err != nil {
		respondServerError(w, "save media metadata failed", err)
		return
	}

	a.resolveMediaURL(created)
	a.pageCache.InvalidateAll(ctx)
	writeJSON(w, http.StatusCreated, map[string]any{"media": created})
}

// MediaDelete handles DELETE /media/{id}: removes the database row, then
// cleans up the S3 objects best-effort.
func (a *Admin) MediaDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	media, err := a.media.FindByID(id)
	if err != nil {
		respondServerError(w, "find media failed", err)
		return
	}
	if media == nil {
		respondNotFound(w)
		return
	}

	if err := a.media.Delete(id); err != nil {
		respondServerError(w, "delete media failed", err)
		return
	}

	ctx := r.Context()
	if a.storageClient != nil {
		if err := a.storageClient.Delete(ctx, media.Path); err != nil {
			slog.Warn("s3 original delete failed", "error", err, "key", media.Path)
		}
		if media.ThumbPath != nil {
			if err := a.storageClient.Delete(ctx, *media.ThumbPath); err != nil {
				slog.Warn("s3 thumbnail delete failed", "error", err, "key", *media.ThumbPath)
			}
		}
	}

	a.pageCache.InvalidateAll(ctx)
	respondMessage(w, http.StatusOK, "Media deleted.")
}

// resolveMediaURL fills in the public URL from the object key.
func (a *Admin) resolveMediaURL(m *models.Media) {
	if a.storageClient == nil {
		return
	}
	m.URL = a.storageClient.FileURL(m.Path)
}

// generateThumbnail creates a JPEG thumbnail from an image, constrained
// to maxWidth while preserving aspect ratio. Returns nil if the image is
// already smaller than maxWidth.
func generateThumbnail(src io.Reader, maxWidth int) ([]byte, error) {
	// Decode config first to check dimensions without full decode.
	imgCfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Check for image bombs.
	if int64(imgCfg.Width)*int64(imgCfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", imgCfg.Width, imgCfg.Height, maxImagePixels)
	}

	// Skip thumbnail if image is already small enough.
	if imgCfg.Width <= maxWidth {
		return nil, nil
	}

	// Seek back to start for full decode.
	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek: %w", err)
		}
	} else {
		return nil, fmt.Errorf("source does not support seeking")
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	// Calculate thumbnail dimensions preserving aspect ratio.
	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newWidth := maxWidth
	newHeight := int(float64(bounds.Dy()) * ratio)

	// Resize using CatmullRom (high quality).
	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}

// extensionFromType returns a file extension for known MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}
