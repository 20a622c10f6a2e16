package firestore

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
)

// Client wraps the Firestore client behind a Firebase app.
type Client struct {
	Firestore *firestore.Client
	projectID string
}

// NewClient creates a new Firestore client using Application Default
// Credentials (or the emulator when FIRESTORE_EMULATOR_HOST is set).
func NewClient(ctx context.Context, projectID string) (*Client, error) {
	conf := &firebase.Config{ProjectID: projectID}

	app, err := firebase.NewApp(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &Client{
		Firestore: firestoreClient,
		projectID: projectID,
	}, nil
}

// Close closes the Firestore client
func (c *Client) Close() error {
	return c.Firestore.Close()
}

// collectionPrefix returns the collection prefix based on environment
// variables, so preview deployments never touch production collections.
//
// Priority order (highest to lowest):
//  1. PR_NUMBER - if set, returns "pr_<number>_"
//  2. BRANCH_NAME - if set and not "main", returns "preview_<sanitized>_"
//     Sanitization: lowercase, replace [^a-z0-9-] with -, truncate to 50 chars
//  3. Production - returns empty string when main branch or no env vars
func collectionPrefix() string {
	if prNumber := os.Getenv("PR_NUMBER"); prNumber != "" {
		return fmt.Sprintf("pr_%s_", prNumber)
	}

	if branchName := os.Getenv("BRANCH_NAME"); branchName != "" && branchName != "main" {
		sanitized := strings.ToLower(branchName)
		reg := regexp.MustCompile(`[^a-z0-9-]`)
		sanitized = reg.ReplaceAllString(sanitized, "-")
		if len(sanitized) > 50 {
			sanitized = sanitized[:50]
		}
		return fmt.Sprintf("preview_%s_", sanitized)
	}

	return ""
}

// CollectionName returns the environment-prefixed collection name
func CollectionName(baseCollection string) string {
	return collectionPrefix() + baseCollection
}
