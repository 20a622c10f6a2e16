package firestore

import "testing"

func TestCollectionName(t *testing.T) {
	tests := []struct {
		name       string
		prNumber   string
		branchName string
		want       string
	}{
		{"production", "", "", "media"},
		{"main branch", "", "main", "media"},
		{"pr number", "123", "", "pr_123_media"},
		{"pr number wins over branch", "123", "feature/x", "pr_123_media"},
		{"preview branch", "", "feature/gallery", "preview_feature-gallery_media"},
		{"branch sanitized", "", "Fix_Upload!", "preview_fix-upload-_media"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PR_NUMBER", tt.prNumber)
			t.Setenv("BRANCH_NAME", tt.branchName)

			if got := CollectionName("media"); got != tt.want {
				t.Errorf("CollectionName(media) = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCollectionName_TruncatesLongBranches(t *testing.T) {
	t.Setenv("PR_NUMBER", "")
	t.Setenv("BRANCH_NAME", "a-very-long-branch-name-that-goes-well-past-the-fifty-character-limit")

	got := CollectionName("media")
	// "preview_" + 50 chars + "_" + "media"
	if len(got) > len("preview_")+50+len("_media") {
		t.Errorf("CollectionName did not truncate the branch segment: %s", got)
	}
}
