package media

import (
	"context"
	"errors"

	"cloud.google.com/go/storage"
)

const defaultNamespace = "media"

// GCSProber checks for existing content in a Google Cloud Storage bucket.
type GCSProber struct {
	client    *storage.Client
	bucket    string
	namespace string
}

// GCSProberOption configures a GCSProber
type GCSProberOption func(*GCSProber)

// WithNamespace configures the object name prefix used for media content
func WithNamespace(namespace string) GCSProberOption {
	return func(p *GCSProber) {
		p.namespace = namespace
	}
}

// NewGCSProber creates a new GCSProber for the given bucket
func NewGCSProber(client *storage.Client, bucket string, opts ...GCSProberOption) *GCSProber {
	p := &GCSProber{
		client:    client,
		bucket:    bucket,
		namespace: defaultNamespace,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Probe checks whether an object for the fingerprint already exists with the
// expected size. The size comparison guards against a truncated or aborted
// earlier upload being mistaken for the complete content: a mismatch is
// reported as "not found" so the content is transferred again.
func (p *GCSProber) Probe(ctx context.Context, fingerprint string, kind MediaKind, size int64) (string, bool, error) {
	path := ObjectPath(p.namespace, fingerprint, kind)

	attrs, err := p.client.Bucket(p.bucket).Object(path).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return path, false, nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return path, false, ErrCancelled
		}
		return path, false, &ProbeError{Path: path, Err: err}
	}

	if attrs.Size != size {
		return path, false, nil
	}

	return path, true, nil
}
