// Package catalog manages the gallery view over uploaded media: listing,
// soft deletion, likes, comments, user profiles, and signed access URLs.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/commons-systems/mediashare/internal/media"
)

const (
	defaultMediaCollection = "media"
	defaultUsersCollection = "users"
	commentsSubcollection  = "comments"
)

// ErrNotFound is returned when a media record or user profile does not exist
var ErrNotFound = errors.New("not found")

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// Store provides gallery operations over the media catalog.
type Store struct {
	fs     *firestore.Client
	gcs    *storage.Client
	bucket string

	mediaCollection string
	usersCollection string
	signedURLTTL    time.Duration
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithMediaCollection overrides the media collection name
func WithMediaCollection(name string) StoreOption {
	return func(s *Store) {
		s.mediaCollection = name
	}
}

// WithUsersCollection overrides the users collection name
func WithUsersCollection(name string) StoreOption {
	return func(s *Store) {
		s.usersCollection = name
	}
}

// WithSignedURLTTL overrides the signed URL lifetime (default 1 hour)
func WithSignedURLTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.signedURLTTL = ttl
	}
}

// NewStore creates a gallery store over Firestore and GCS
func NewStore(fs *firestore.Client, gcs *storage.Client, bucket string, opts ...StoreOption) *Store {
	s := &Store{
		fs:              fs,
		gcs:             gcs,
		bucket:          bucket,
		mediaCollection: defaultMediaCollection,
		usersCollection: defaultUsersCollection,
		signedURLTTL:    time.Hour,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// List returns the newest media first, excluding soft-deleted items.
// The deleted filter runs client-side so older records without the field
// are still included.
func (s *Store) List(ctx context.Context, limit int) ([]*media.MediaRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	iter := s.fs.Collection(s.mediaCollection).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var records []*media.MediaRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate media records: %w", err)
		}

		var rec media.MediaRecord
		if err := doc.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("failed to parse media record: %w", err)
		}
		if rec.Deleted {
			continue
		}
		rec.ID = doc.Ref.ID
		records = append(records, &rec)
	}

	return records, nil
}

// Get returns one media record by id, including soft-deleted ones.
func (s *Store) Get(ctx context.Context, mediaID string) (*media.MediaRecord, error) {
	doc, err := s.fs.Collection(s.mediaCollection).Doc(mediaID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get media record %s: %w", mediaID, err)
	}

	var rec media.MediaRecord
	if err := doc.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("failed to parse media record %s: %w", mediaID, err)
	}
	rec.ID = doc.Ref.ID
	return &rec, nil
}

// SetDeleteFlag soft-deletes or restores a media record. The stored object
// and any other records sharing its path are untouched.
func (s *Store) SetDeleteFlag(ctx context.Context, mediaID string, deleted bool) error {
	_, err := s.fs.Collection(s.mediaCollection).Doc(mediaID).Update(ctx, []firestore.Update{
		{Path: "deleted", Value: deleted},
	})
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update delete flag for %s: %w", mediaID, err)
	}
	return nil
}

// Purge permanently removes a media record, its comments, and its stored
// object. The object is only deleted when no other record references the
// same storage path, since deduplicated uploads share objects.
func (s *Store) Purge(ctx context.Context, mediaID string) error {
	rec, err := s.Get(ctx, mediaID)
	if err != nil {
		return err
	}

	// Delete comments first so no subcollection orphans remain.
	comments := s.fs.Collection(s.mediaCollection).Doc(mediaID).Collection(commentsSubcollection)
	iter := comments.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to iterate comments for %s: %w", mediaID, err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("failed to delete comment %s: %w", doc.Ref.ID, err)
		}
	}

	if _, err := s.fs.Collection(s.mediaCollection).Doc(mediaID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete media record %s: %w", mediaID, err)
	}

	shared, err := s.pathReferenced(ctx, rec.StoragePath)
	if err != nil {
		return err
	}
	if shared {
		return nil
	}

	err = s.gcs.Bucket(s.bucket).Object(rec.StoragePath).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object %s: %w", rec.StoragePath, err)
	}
	return nil
}

// pathReferenced reports whether any remaining record points at storagePath.
func (s *Store) pathReferenced(ctx context.Context, storagePath string) (bool, error) {
	iter := s.fs.Collection(s.mediaCollection).
		Where("storagePath", "==", storagePath).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check references for %s: %w", storagePath, err)
	}
	return true, nil
}

// Like adds userID to the media record's like set. Liking twice is a no-op.
func (s *Store) Like(ctx context.Context, mediaID, userID string) error {
	_, err := s.fs.Collection(s.mediaCollection).Doc(mediaID).Update(ctx, []firestore.Update{
		{Path: "likes", Value: firestore.ArrayUnion(userID)},
	})
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to like media %s: %w", mediaID, err)
	}
	return nil
}

// Unlike removes userID from the media record's like set.
func (s *Store) Unlike(ctx context.Context, mediaID, userID string) error {
	_, err := s.fs.Collection(s.mediaCollection).Doc(mediaID).Update(ctx, []firestore.Update{
		{Path: "likes", Value: firestore.ArrayRemove(userID)},
	})
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to unlike media %s: %w", mediaID, err)
	}
	return nil
}

// AddComment appends a comment to the media record's comment subcollection
func (s *Store) AddComment(ctx context.Context, mediaID string, comment *Comment) (string, error) {
	if comment.Text == "" {
		return "", fmt.Errorf("comment text is required")
	}

	docRef, _, err := s.fs.Collection(s.mediaCollection).Doc(mediaID).
		Collection(commentsSubcollection).
		Add(ctx, comment)
	if err != nil {
		return "", fmt.Errorf("failed to add comment to %s: %w", mediaID, err)
	}
	return docRef.ID, nil
}

// ListComments returns the comments on a media item, oldest first.
func (s *Store) ListComments(ctx context.Context, mediaID string) ([]*Comment, error) {
	iter := s.fs.Collection(s.mediaCollection).Doc(mediaID).
		Collection(commentsSubcollection).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var comments []*Comment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate comments for %s: %w", mediaID, err)
		}

		var c Comment
		if err := doc.DataTo(&c); err != nil {
			return nil, fmt.Errorf("failed to parse comment: %w", err)
		}
		c.ID = doc.Ref.ID
		comments = append(comments, &c)
	}

	return comments, nil
}

// UpsertUser stores or refreshes a chat user's profile
func (s *Store) UpsertUser(ctx context.Context, profile *UserProfile) error {
	if profile.ID == "" {
		return fmt.Errorf("user id is required")
	}

	_, err := s.fs.Collection(s.usersCollection).Doc(profile.ID).Set(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", profile.ID, err)
	}
	return nil
}

// GetUser returns a chat user's stored profile
func (s *Store) GetUser(ctx context.Context, userID string) (*UserProfile, error) {
	doc, err := s.fs.Collection(s.usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	var profile UserProfile
	if err := doc.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to parse user %s: %w", userID, err)
	}
	profile.ID = doc.Ref.ID
	return &profile, nil
}

// SyncDisplayName backfills a user's current display name onto all of their
// media records, so renames in the chat app propagate to the gallery.
func (s *Store) SyncDisplayName(ctx context.Context, userID, displayName string) (int, error) {
	iter := s.fs.Collection(s.mediaCollection).
		Where("uploaderId", "==", userID).
		Documents(ctx)
	defer iter.Stop()

	updated := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return updated, fmt.Errorf("failed to iterate media for user %s: %w", userID, err)
		}

		var rec media.MediaRecord
		if err := doc.DataTo(&rec); err != nil {
			return updated, fmt.Errorf("failed to parse media record: %w", err)
		}
		if rec.DisplayName == displayName {
			continue
		}

		_, err = doc.Ref.Update(ctx, []firestore.Update{
			{Path: "displayName", Value: displayName},
		})
		if err != nil {
			return updated, fmt.Errorf("failed to update display name on %s: %w", doc.Ref.ID, err)
		}
		updated++
	}

	return updated, nil
}

// ObjectReader opens a stored object for streaming. The caller owns the
// returned reader and must close it.
func (s *Store) ObjectReader(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	reader, err := s.gcs.Bucket(s.bucket).Object(storagePath).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open object %s: %w", storagePath, err)
	}
	return reader, nil
}

// SignedURL returns a time-limited read URL for a stored object
func (s *Store) SignedURL(storagePath string) (string, error) {
	url, err := s.gcs.Bucket(s.bucket).SignedURL(storagePath, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(s.signedURLTTL),
		Scheme:  storage.SigningSchemeV4,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %s: %w", storagePath, err)
	}
	return url, nil
}
