package media

import (
	"strings"
	"time"
)

// MediaKind classifies a stored asset. Only images and videos are accepted.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

// Ext returns the storage extension for the kind. Images are stored as .jpg
// and videos as .mp4 regardless of the source container.
func (k MediaKind) Ext() string {
	if k == KindVideo {
		return "mp4"
	}
	return "jpg"
}

// KindForContentType maps a MIME type to a MediaKind.
// Returns false for anything that is neither an image nor a video.
func KindForContentType(contentType string) (MediaKind, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return KindImage, true
	case strings.HasPrefix(contentType, "video/"):
		return KindVideo, true
	default:
		return "", false
	}
}

// ObjectPath derives the storage path for a fingerprint and kind.
// The path is a pure function of (content bytes, kind): two byte-identical
// uploads of the same kind always resolve to the same path.
func ObjectPath(namespace, fingerprint string, kind MediaKind) string {
	return namespace + "/" + fingerprint + "." + kind.Ext()
}

// FileSource describes a local file queued for upload. The upload task owns
// the file for its lifetime.
type FileSource struct {
	Path        string // local filesystem path
	Name        string // user-facing name, preserved in results
	Size        int64
	ContentType string
	Kind        MediaKind
	Fingerprint string // optional precomputed content hash; computed by the task when empty
}

// MediaRecord is one stored media asset visible in the gallery.
type MediaRecord struct {
	ID          string    `firestore:"-"`
	DisplayName string    `firestore:"displayName"`
	StoragePath string    `firestore:"storagePath"`
	Kind        MediaKind `firestore:"mediaKind"`
	CreatedAt   time.Time `firestore:"createdAt,serverTimestamp"`
	UploaderID  string    `firestore:"uploaderId"`
	Deleted     bool      `firestore:"deleted"`
	Likes       []string  `firestore:"likes"`
}

// TaskStatus is the current state of an upload task.
type TaskStatus string

const (
	StatusHashing       TaskStatus = "hashing"
	StatusProbing       TaskStatus = "probing"
	StatusTransferring  TaskStatus = "transferring"
	StatusDeduplicating TaskStatus = "deduplicating"
	StatusRecording     TaskStatus = "recording"
	StatusUploaded      TaskStatus = "uploaded"
	StatusDuplicate     TaskStatus = "duplicate"
	StatusFailed        TaskStatus = "failed"
	StatusCancelled     TaskStatus = "cancelled"
)

// TaskOutcome is the terminal disposition of an upload task.
type TaskOutcome string

const (
	OutcomePending   TaskOutcome = "pending"
	OutcomeUploaded  TaskOutcome = "uploaded"
	OutcomeDuplicate TaskOutcome = "duplicate"
	OutcomeFailed    TaskOutcome = "failed"
	OutcomeCancelled TaskOutcome = "cancelled"
)

// TaskResult is the terminal outcome of one file within a batch.
type TaskResult struct {
	Index            int // position in the submitted batch
	File             string
	Outcome          TaskOutcome
	MediaID          string
	StoragePath      string
	BytesTransferred int64
	Err              error
}

// Progress reports transfer progress for one file. Percentage is always in
// [0,100] and non-decreasing for a given task.
type Progress struct {
	TaskID           string
	File             string
	BytesTransferred int64
	TotalBytes       int64
	Percentage       float64
}
