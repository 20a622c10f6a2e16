package media

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const defaultMediaCollection = "media"

// FirestoreRecorder manages media records in a Firestore collection.
type FirestoreRecorder struct {
	client     *firestore.Client
	collection string
}

// FirestoreRecorderOption configures a FirestoreRecorder
type FirestoreRecorderOption func(*FirestoreRecorder)

// WithCollection configures the Firestore collection holding media records
func WithCollection(collection string) FirestoreRecorderOption {
	return func(r *FirestoreRecorder) {
		r.collection = collection
	}
}

// NewFirestoreRecorder creates a new Firestore-backed recorder
func NewFirestoreRecorder(client *firestore.Client, opts ...FirestoreRecorderOption) *FirestoreRecorder {
	r := &FirestoreRecorder{
		client:     client,
		collection: defaultMediaCollection,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RecordNew writes a media record with a generated document id. CreatedAt is
// server-assigned through the serverTimestamp tag. Idempotency is the
// caller's responsibility: the pipeline invokes this at most once per
// completed non-duplicate transfer.
func (r *FirestoreRecorder) RecordNew(ctx context.Context, rec *MediaRecord) (string, error) {
	if rec.StoragePath == "" {
		return "", &RecordError{Err: fmt.Errorf("storage path is required")}
	}
	if rec.Likes == nil {
		rec.Likes = []string{}
	}

	docRef, _, err := r.client.Collection(r.collection).Add(ctx, rec)
	if err != nil {
		return "", &RecordError{Path: rec.StoragePath, Err: fmt.Errorf("failed to create media record: %w", err)}
	}

	return docRef.ID, nil
}

// ResolveExisting returns the id of the most recently created record whose
// storagePath matches. The most-recent tie-break is deliberate: it does not
// depend on incidental backend ordering. A stored object with no matching
// record means the blob store and the catalog have diverged, surfaced as
// ErrRecordMissing.
func (r *FirestoreRecorder) ResolveExisting(ctx context.Context, storagePath string) (string, error) {
	iter := r.client.Collection(r.collection).
		Where("storagePath", "==", storagePath).
		OrderBy("createdAt", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return "", &RecordError{Path: storagePath, Err: ErrRecordMissing}
	}
	if err != nil {
		return "", &RecordError{Path: storagePath, Err: fmt.Errorf("failed to query media records: %w", err)}
	}

	return doc.Ref.ID, nil
}
