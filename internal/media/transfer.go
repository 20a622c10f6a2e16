package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// GCSTransfer streams files to a Google Cloud Storage bucket.
type GCSTransfer struct {
	client    *storage.Client
	bucket    string
	chunkSize int
}

// GCSTransferOption configures a GCSTransfer
type GCSTransferOption func(*GCSTransfer)

// WithChunkSize configures the copy buffer size. Progress is reported once
// per chunk, so this also bounds the callback frequency.
func WithChunkSize(size int) GCSTransferOption {
	return func(t *GCSTransfer) {
		t.chunkSize = size
	}
}

// NewGCSTransfer creates a new GCSTransfer for the given bucket
func NewGCSTransfer(client *storage.Client, bucket string, opts ...GCSTransferOption) *GCSTransfer {
	t := &GCSTransfer{
		client:    client,
		bucket:    bucket,
		chunkSize: 32 * 1024,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Put transfers all bytes of src to objectPath with the declared content
// type. On cancellation the object writer is abandoned before finalization,
// so no object appears at the destination. Transport failures are returned
// as TransferError without retrying; retry policy belongs to the caller.
func (t *GCSTransfer) Put(ctx context.Context, src FileSource, objectPath string, report ReportFunc) (int64, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return 0, &ReadError{Path: src.Path, Err: err}
	}
	defer f.Close()

	obj := t.client.Bucket(t.bucket).Object(objectPath)
	writer := obj.NewWriter(ctx)

	if src.ContentType != "" {
		writer.ContentType = src.ContentType
	}

	buf := make([]byte, t.chunkSize)
	var totalWritten int64

	for {
		select {
		case <-ctx.Done():
			// The writer context is cancelled, so Close cannot commit the
			// object; its error is irrelevant here.
			_ = writer.Close()
			return totalWritten, ErrCancelled
		default:
		}

		n, readErr := f.Read(buf)
		if n > 0 {
			written, writeErr := writer.Write(buf[:n])
			totalWritten += int64(written)
			if writeErr != nil {
				_ = writer.Close()
				if ctx.Err() != nil {
					return totalWritten, ErrCancelled
				}
				return totalWritten, newTransferError(objectPath, fmt.Errorf("failed to write object: %w", writeErr))
			}

			if report != nil {
				report(totalWritten, src.Size)
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = writer.Close()
			return totalWritten, &ReadError{Path: src.Path, Err: readErr}
		}
	}

	// Close finalizes the upload; only a successful Close commits the object.
	if err := writer.Close(); err != nil {
		if ctx.Err() != nil {
			return totalWritten, ErrCancelled
		}
		return totalWritten, newTransferError(objectPath, fmt.Errorf("failed to finalize object: %w", err))
	}

	return totalWritten, nil
}

// newTransferError wraps a backend failure, lifting the HTTP status code out
// of googleapi errors so callers can branch without string matching.
func newTransferError(path string, err error) *TransferError {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &TransferError{Path: path, Code: apiErr.Code, Err: err}
	}
	return &TransferError{Path: path, Err: err}
}
