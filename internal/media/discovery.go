package media

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"path/filepath"
	"strings"
)

// Extensions accepted by default, grouped by kind. Matching is by lowercased
// extension; the storage extension still comes from MediaKind.Ext.
var defaultImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic"}
var defaultVideoExtensions = []string{".mp4", ".mov", ".avi", ".webm"}

// DiscoveryOption configures MediaDiscoverer
type DiscoveryOption func(*MediaDiscoverer)

// MediaDiscoverer walks a directory tree and yields uploadable media files.
type MediaDiscoverer struct {
	extensions  []string // extensions to match (lowercase, with dot)
	skipHidden  bool     // skip files/dirs starting with "."
	fingerprint bool     // compute the content fingerprint during discovery
	bufferSize  int      // channel buffer size (default 100)
}

// WithMediaExtensions overrides the accepted file extensions
func WithMediaExtensions(exts ...string) DiscoveryOption {
	return func(d *MediaDiscoverer) {
		normalized := make([]string, len(exts))
		for i, ext := range exts {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			normalized[i] = strings.ToLower(ext)
		}
		d.extensions = normalized
	}
}

// WithSkipHidden configures whether to skip hidden files and directories
func WithSkipHidden(skip bool) DiscoveryOption {
	return func(d *MediaDiscoverer) {
		d.skipHidden = skip
	}
}

// WithFingerprint configures whether to fingerprint files during discovery.
// Fingerprinting here lets the pipeline skip its hashing stage, at the cost
// of reading every file twice.
func WithFingerprint(compute bool) DiscoveryOption {
	return func(d *MediaDiscoverer) {
		d.fingerprint = compute
	}
}

// WithDiscoveryBufferSize configures the channel buffer size
func WithDiscoveryBufferSize(size int) DiscoveryOption {
	return func(d *MediaDiscoverer) {
		d.bufferSize = size
	}
}

// NewMediaDiscoverer creates a new MediaDiscoverer with the given options
func NewMediaDiscoverer(opts ...DiscoveryOption) *MediaDiscoverer {
	d := &MediaDiscoverer{
		extensions: append(append([]string{}, defaultImageExtensions...), defaultVideoExtensions...),
		skipHidden: true,
		bufferSize: 100,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Discover walks the directory tree and sends a FileSource for each media
// file found. Both channels are closed when discovery completes.
func (d *MediaDiscoverer) Discover(ctx context.Context, rootDir string) (<-chan FileSource, <-chan error) {
	fileChan := make(chan FileSource, d.bufferSize)
	errChan := make(chan error, d.bufferSize)

	go func() {
		defer close(fileChan)
		defer close(errChan)

		rootDir = filepath.Clean(rootDir)

		err := filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return &DiscoveryError{Path: path, Err: ErrCancelled}
			default:
			}

			if err != nil {
				errChan <- &DiscoveryError{Path: path, Err: err}
				// Skip this entry but continue walking
				return nil
			}

			if d.skipHidden && strings.HasPrefix(entry.Name(), ".") {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if entry.IsDir() {
				return nil
			}

			ext := strings.ToLower(filepath.Ext(path))
			matched := false
			for _, allowedExt := range d.extensions {
				if ext == allowedExt {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}

			contentType := mime.TypeByExtension(ext)
			kind, ok := KindForContentType(contentType)
			if !ok {
				errChan <- &DiscoveryError{Path: path, Err: ErrUnsupportedKind}
				return nil
			}

			info, err := entry.Info()
			if err != nil {
				errChan <- &DiscoveryError{Path: path, Err: err}
				return nil
			}

			src := FileSource{
				Path:        path,
				Name:        entry.Name(),
				Size:        info.Size(),
				ContentType: contentType,
				Kind:        kind,
			}

			if d.fingerprint {
				digest, err := FingerprintFile(path)
				if err != nil {
					errChan <- &DiscoveryError{Path: path, Err: fmt.Errorf("failed to fingerprint: %w", err)}
					return nil
				}
				src.Fingerprint = digest
			}

			select {
			case fileChan <- src:
			case <-ctx.Done():
				return &DiscoveryError{Path: path, Err: ErrCancelled}
			}

			return nil
		})

		if err != nil {
			if _, ok := err.(*DiscoveryError); !ok {
				err = &DiscoveryError{Path: rootDir, Err: err}
			}
			errChan <- err
		}
	}()

	return fileChan, errChan
}
