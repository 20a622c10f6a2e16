package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/commons-systems/mediashare/internal/media"
)

// UploadResponse is the JSON result of a multipart upload batch
type UploadResponse struct {
	BatchID    string         `json:"batchId"`
	Uploaded   int            `json:"uploaded"`
	Duplicates int            `json:"duplicates"`
	Failed     int            `json:"failed"`
	Cancelled  int            `json:"cancelled"`
	DurationMs int64          `json:"durationMs"`
	Results    []UploadResult `json:"results"`
}

// UploadResult is the outcome of one file within the batch
type UploadResult struct {
	File    string `json:"file"`
	Outcome string `json:"outcome"`
	MediaID string `json:"mediaId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UploadHandler accepts multipart batch uploads from the web client.
type UploadHandler struct {
	pipeline BatchRunner
	maxBytes int64
}

// NewUploadHandler creates an upload handler with a request size limit in MB
func NewUploadHandler(pipeline BatchRunner, maxUploadMB int) *UploadHandler {
	return &UploadHandler{
		pipeline: pipeline,
		maxBytes: int64(maxUploadMB) << 20,
	}
}

func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Request too large or malformed", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	displayName := r.FormValue("name")
	if displayName == "" {
		displayName = "ゲスト"
	}
	uploaderID := r.FormValue("userId")
	if uploaderID == "" {
		uploaderID = "web"
	}

	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		http.Error(w, "No files provided", http.StatusBadRequest)
		return
	}

	tmpDir, err := os.MkdirTemp("", "upload-*")
	if err != nil {
		log.Printf("ERROR: Failed to create spool directory: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	var files []media.FileSource
	var rejected []UploadResult
	for i, part := range parts {
		src, err := spoolPart(tmpDir, i, part)
		if err != nil {
			rejected = append(rejected, UploadResult{
				File:    part.Filename,
				Outcome: string(media.OutcomeFailed),
				Error:   err.Error(),
			})
			continue
		}
		files = append(files, src)
	}

	resp := UploadResponse{Failed: len(rejected), Results: rejected}
	if len(files) > 0 {
		result, err := h.pipeline.Run(r.Context(), files, uploaderID, displayName)
		if err != nil {
			log.Printf("ERROR: Upload batch failed: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		resp.BatchID = result.BatchID
		resp.Uploaded = result.Uploaded
		resp.Duplicates = result.Duplicates
		resp.Failed += result.Failed
		resp.Cancelled = result.Cancelled
		resp.DurationMs = result.Duration.Milliseconds()
		for _, tr := range result.Results {
			ur := UploadResult{
				File:    tr.File,
				Outcome: string(tr.Outcome),
				MediaID: tr.MediaID,
			}
			if tr.Err != nil {
				ur.Error = tr.Err.Error()
			}
			resp.Results = append(resp.Results, ur)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("ERROR: Failed to encode upload response: %v", err)
	}
}

// spoolPart writes one multipart file to the spool directory and builds its
// FileSource. The kind comes from the declared content type, falling back to
// the file extension.
func spoolPart(dir string, index int, part *multipart.FileHeader) (media.FileSource, error) {
	contentType := part.Header.Get("Content-Type")
	kind, ok := media.KindForContentType(contentType)
	if !ok {
		contentType = contentTypeForExt(filepath.Ext(part.Filename))
		kind, ok = media.KindForContentType(contentType)
	}
	if !ok {
		return media.FileSource{}, fmt.Errorf("%w: %s", media.ErrUnsupportedKind, part.Filename)
	}

	src, err := part.Open()
	if err != nil {
		return media.FileSource{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	path := filepath.Join(dir, fmt.Sprintf("%d-%s", index, filepath.Base(part.Filename)))
	dst, err := os.Create(path)
	if err != nil {
		return media.FileSource{}, fmt.Errorf("failed to create spool file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return media.FileSource{}, fmt.Errorf("failed to spool upload: %w", err)
	}

	return media.FileSource{
		Path:        path,
		Name:        part.Filename,
		Size:        size,
		ContentType: contentType,
		Kind:        kind,
	}, nil
}

func contentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	default:
		return ""
	}
}
