package media

import "context"

// Prober checks whether content with a given fingerprint already exists in
// the blob store.
type Prober interface {
	// Probe resolves the storage path for the fingerprint and kind and
	// reports whether an object of the expected size already exists there.
	// The resolved path is returned whether or not the object exists.
	// A backend failure is a ProbeError and means "unknown", not "absent".
	Probe(ctx context.Context, fingerprint string, kind MediaKind, size int64) (path string, found bool, err error)
}

// ReportFunc receives byte-level transfer progress, at most once per chunk.
type ReportFunc func(bytesTransferred, totalBytes int64)

// Transfer streams file bytes to the blob store.
type Transfer interface {
	// Put transfers all bytes of src to objectPath, invoking report per
	// chunk. Cancellation through ctx surfaces as ErrCancelled; transport
	// failures surface as TransferError. No internal retries.
	Put(ctx context.Context, src FileSource, objectPath string, report ReportFunc) (int64, error)
}

// Recorder manages media metadata records in the document store.
type Recorder interface {
	// RecordNew creates a record with a store-generated id and
	// server-assigned creation time, returning the id.
	RecordNew(ctx context.Context, rec *MediaRecord) (string, error)

	// ResolveExisting returns the id of the most recently created record
	// whose storage path matches. A stored object with no matching record
	// is a RecordError wrapping ErrRecordMissing.
	ResolveExisting(ctx context.Context, storagePath string) (string, error)
}
