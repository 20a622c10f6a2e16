package media

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// supported summary languages; Japanese is the default because guests
// interact with the chat bot in Japanese.
var summaryLanguages = []language.Tag{
	language.Japanese,
	language.English,
}

var summaryMatcher = language.NewMatcher(summaryLanguages)

func init() {
	message.SetString(language.Japanese, "received %d media files", "%d件のメディアを受け取りました。")
	message.SetString(language.Japanese, "received %d media files (%d already uploaded)", "%d件のメディアを受け取りました（うち%d件はアップロード済みでした）。")
	message.SetString(language.Japanese, "%s could not be uploaded: %s", "%s をアップロードできませんでした: %s")
	message.SetString(language.Japanese, "%d uploads were cancelled", "%d件のアップロードはキャンセルされました。")

	message.SetString(language.English, "received %d media files", "Received %d media files.")
	message.SetString(language.English, "received %d media files (%d already uploaded)", "Received %d media files (%d were already uploaded).")
	message.SetString(language.English, "%s could not be uploaded: %s", "%s could not be uploaded: %s")
	message.SetString(language.English, "%d uploads were cancelled", "%d uploads were cancelled.")
}

// MatchSummaryLanguage resolves a BCP 47 tag (e.g. "ja", "en-US") to the
// closest supported summary language.
func MatchSummaryLanguage(lang string) language.Tag {
	_, index := language.MatchStrings(summaryMatcher, lang)
	return summaryLanguages[index]
}

// Summary renders the user-facing batch summary in the given language.
// Successes and duplicates are merged into one positive count with the
// duplicates called out, and each failure is listed by original file name
// with the raw backend error preserved for diagnosis.
func (r *BatchResult) Summary(tag language.Tag) string {
	p := message.NewPrinter(tag)

	var lines []string

	received := r.Uploaded + r.Duplicates
	if received > 0 {
		if r.Duplicates > 0 {
			lines = append(lines, p.Sprintf("received %d media files (%d already uploaded)", received, r.Duplicates))
		} else {
			lines = append(lines, p.Sprintf("received %d media files", received))
		}
	}

	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			errText := ""
			if res.Err != nil {
				errText = res.Err.Error()
			}
			lines = append(lines, p.Sprintf("%s could not be uploaded: %s", res.File, errText))
		}
	}

	if r.Cancelled > 0 {
		lines = append(lines, p.Sprintf("%d uploads were cancelled", r.Cancelled))
	}

	return strings.Join(lines, "\n")
}
