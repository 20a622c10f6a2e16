package catalog

import "time"

// Comment is one guest comment on a media item, stored in a subcollection
// under the media record.
type Comment struct {
	ID          string    `firestore:"-"`
	UserID      string    `firestore:"userId"`
	DisplayName string    `firestore:"displayName"`
	Text        string    `firestore:"text"`
	CreatedAt   time.Time `firestore:"createdAt,serverTimestamp"`
}

// UserProfile is a chat user known to the gallery. The document id is the
// chat user id, so profile upserts are idempotent.
type UserProfile struct {
	ID          string    `firestore:"-"`
	DisplayName string    `firestore:"displayName"`
	PictureURL  string    `firestore:"pictureUrl"`
	UpdatedAt   time.Time `firestore:"updatedAt,serverTimestamp"`
}
