package handlers

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/commons-systems/mediashare/internal/catalog"
	"github.com/commons-systems/mediashare/internal/media"
)

// GalleryStore is the catalog surface the gallery API needs
type GalleryStore interface {
	List(ctx context.Context, limit int) ([]*media.MediaRecord, error)
	SetDeleteFlag(ctx context.Context, mediaID string, deleted bool) error
	Purge(ctx context.Context, mediaID string) error
	Like(ctx context.Context, mediaID, userID string) error
	Unlike(ctx context.Context, mediaID, userID string) error
	AddComment(ctx context.Context, mediaID string, comment *catalog.Comment) (string, error)
	ListComments(ctx context.Context, mediaID string) ([]*catalog.Comment, error)
	SignedURL(storagePath string) (string, error)
	ObjectReader(ctx context.Context, storagePath string) (io.ReadCloser, error)
}

// downloadListLimit caps how many items a bulk download includes.
const downloadListLimit = 1000

// GalleryHandlers serves the gallery read and moderation API.
type GalleryHandlers struct {
	store GalleryStore
}

// NewGalleryHandlers creates gallery handlers over the catalog store
func NewGalleryHandlers(store GalleryStore) *GalleryHandlers {
	return &GalleryHandlers{store: store}
}

// galleryItem is one media entry in the listing response
type galleryItem struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	MediaKind   string    `json:"mediaKind"`
	CreatedAt   time.Time `json:"createdAt"`
	Likes       []string  `json:"likes"`
	URL         string    `json:"url,omitempty"`
}

// List returns the gallery, newest first
func (g *GalleryHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := g.store.List(r.Context(), limit)
	if err != nil {
		log.Printf("ERROR: Failed to list media: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	items := make([]galleryItem, 0, len(records))
	for _, rec := range records {
		item := galleryItem{
			ID:          rec.ID,
			DisplayName: rec.DisplayName,
			MediaKind:   string(rec.Kind),
			CreatedAt:   rec.CreatedAt,
			Likes:       rec.Likes,
		}
		signedURL, err := g.store.SignedURL(rec.StoragePath)
		if err != nil {
			// The item is still listed; the client shows a placeholder.
			log.Printf("WARNING: Failed to sign URL for %s: %v", rec.StoragePath, err)
		} else {
			item.URL = signedURL
		}
		items = append(items, item)
	}

	writeJSON(w, map[string]interface{}{"media": items})
}

// Download streams a zip archive of every non-deleted media object. Items
// whose object cannot be read are logged and skipped, so one broken blob
// does not sink the whole archive.
func (g *GalleryHandlers) Download(w http.ResponseWriter, r *http.Request) {
	records, err := g.store.List(r.Context(), downloadListLimit)
	if err != nil {
		log.Printf("ERROR: Failed to list media for download: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="wedding-media.zip"`)

	zw := zip.NewWriter(w)
	used := make(map[string]int)
	for _, rec := range records {
		reader, err := g.store.ObjectReader(r.Context(), rec.StoragePath)
		if err != nil {
			log.Printf("WARNING: Skipping %s in archive: %v", rec.StoragePath, err)
			continue
		}

		entry, err := zw.Create(archiveEntryName(used, rec))
		if err == nil {
			_, err = io.Copy(entry, reader)
		}
		reader.Close()
		if err != nil {
			// The archive stream is already committed; log and move on.
			log.Printf("WARNING: Failed to archive %s: %v", rec.StoragePath, err)
		}
	}

	if err := zw.Close(); err != nil {
		log.Printf("ERROR: Failed to finalize media archive: %v", err)
	}
}

// archiveEntryName builds a timestamp_uploader entry name, numbering repeats
// so same-second uploads from one user keep distinct names.
func archiveEntryName(used map[string]int, rec *media.MediaRecord) string {
	base := fmt.Sprintf("%s_%s", rec.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"), rec.DisplayName)
	used[base]++
	if n := used[base]; n > 1 {
		base = fmt.Sprintf("%s_%d", base, n)
	}
	return base + "." + rec.Kind.Ext()
}

// Delete soft-deletes a media record
func (g *GalleryHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	g.mutate(w, r, func(ctx context.Context, id string) error {
		return g.store.SetDeleteFlag(ctx, id, true)
	})
}

// Purge permanently removes a media record and its stored object
func (g *GalleryHandlers) Purge(w http.ResponseWriter, r *http.Request) {
	g.mutate(w, r, g.store.Purge)
}

// Like records a like from the posted user
func (g *GalleryHandlers) Like(w http.ResponseWriter, r *http.Request) {
	g.likeOp(w, r, g.store.Like)
}

// Unlike removes a like from the posted user
func (g *GalleryHandlers) Unlike(w http.ResponseWriter, r *http.Request) {
	g.likeOp(w, r, g.store.Unlike)
}

// AddComment appends a comment to a media item
func (g *GalleryHandlers) AddComment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID      string `json:"userId"`
		DisplayName string `json:"displayName"`
		Text        string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	id, err := g.store.AddComment(r.Context(), r.PathValue("id"), &catalog.Comment{
		UserID:      body.UserID,
		DisplayName: body.DisplayName,
		Text:        body.Text,
	})
	if err != nil {
		g.writeStoreError(w, err)
		return
	}

	writeJSON(w, map[string]string{"id": id})
}

// ListComments returns a media item's comments, oldest first
func (g *GalleryHandlers) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := g.store.ListComments(r.Context(), r.PathValue("id"))
	if err != nil {
		g.writeStoreError(w, err)
		return
	}
	if comments == nil {
		comments = []*catalog.Comment{}
	}

	writeJSON(w, map[string]interface{}{"comments": comments})
}

func (g *GalleryHandlers) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, string) error) {
	if err := op(r.Context(), r.PathValue("id")); err != nil {
		g.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *GalleryHandlers) likeOp(w http.ResponseWriter, r *http.Request, op func(context.Context, string, string) error) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := op(r.Context(), r.PathValue("id"), body.UserID); err != nil {
		g.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *GalleryHandlers) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	log.Printf("ERROR: Gallery operation failed: %v", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: Failed to encode response: %v", err)
	}
}
