package media

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestMatchSummaryLanguage(t *testing.T) {
	tests := []struct {
		input string
		want  language.Tag
	}{
		{"ja", language.Japanese},
		{"ja-JP", language.Japanese},
		{"en", language.English},
		{"en-US", language.English},
		{"fr", language.Japanese}, // unsupported falls back to the default
		{"", language.Japanese},
	}

	for _, tt := range tests {
		if got := MatchSummaryLanguage(tt.input); got != tt.want {
			t.Errorf("MatchSummaryLanguage(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestBatchResult_Summary_Japanese(t *testing.T) {
	result := &BatchResult{
		Uploaded:   2,
		Duplicates: 1,
	}

	got := result.Summary(language.Japanese)
	if !strings.Contains(got, "3件") {
		t.Errorf("summary should merge uploads and duplicates into one count of 3: %q", got)
	}
	if !strings.Contains(got, "うち1件") {
		t.Errorf("summary should call out the duplicate count: %q", got)
	}
}

func TestBatchResult_Summary_NoDuplicates(t *testing.T) {
	result := &BatchResult{Uploaded: 5}

	got := result.Summary(language.Japanese)
	if !strings.Contains(got, "5件") {
		t.Errorf("summary should report 5 received files: %q", got)
	}
	if strings.Contains(got, "うち") {
		t.Errorf("summary should not mention duplicates when there are none: %q", got)
	}
}

func TestBatchResult_Summary_ListsFailuresByName(t *testing.T) {
	result := &BatchResult{
		Uploaded: 1,
		Failed:   1,
		Results: []TaskResult{
			{File: "IMG_0001.jpg", Outcome: OutcomeUploaded},
			{File: "clip.mp4", Outcome: OutcomeFailed, Err: errors.New("backend unavailable")},
		},
	}

	got := result.Summary(language.English)
	if !strings.Contains(got, "clip.mp4") {
		t.Errorf("summary should name the failed file: %q", got)
	}
	if !strings.Contains(got, "backend unavailable") {
		t.Errorf("summary should carry the raw error for diagnosis: %q", got)
	}
	if strings.Contains(got, "IMG_0001.jpg") {
		t.Errorf("summary should not enumerate successful files: %q", got)
	}
}

func TestBatchResult_Summary_Cancelled(t *testing.T) {
	result := &BatchResult{Uploaded: 1, Cancelled: 2}

	got := result.Summary(language.English)
	if !strings.Contains(got, "2 uploads were cancelled") {
		t.Errorf("summary should report cancelled uploads: %q", got)
	}
}
