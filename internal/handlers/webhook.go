package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"golang.org/x/text/language"

	"github.com/commons-systems/mediashare/internal/catalog"
	"github.com/commons-systems/mediashare/internal/linebot"
	"github.com/commons-systems/mediashare/internal/media"
)

// ChatClient is the slice of the messaging API the webhook needs
type ChatClient interface {
	ReplyMessage(ctx context.Context, replyToken string, messages ...linebot.TextMessage) error
	GetProfile(ctx context.Context, userID string) (*linebot.Profile, error)
	GetMessageContent(ctx context.Context, messageID string) (io.ReadCloser, string, error)
}

// BatchRunner runs one batch of files through the upload pipeline
type BatchRunner interface {
	Run(ctx context.Context, files []media.FileSource, uploaderID, displayName string) (*media.BatchResult, error)
}

// ProfileStore persists chat user profiles
type ProfileStore interface {
	UpsertUser(ctx context.Context, profile *catalog.UserProfile) error
	SyncDisplayName(ctx context.Context, userID, displayName string) (int, error)
}

// WebhookHandler processes chat platform webhook deliveries: text commands
// get canned replies, media messages are ingested through the upload
// pipeline and answered with one aggregated summary.
type WebhookHandler struct {
	channelSecret string
	chat          ChatClient
	pipeline      BatchRunner
	profiles      ProfileStore
	uploadURL     string
	summaryLang   language.Tag
}

// NewWebhookHandler creates a webhook handler
func NewWebhookHandler(channelSecret string, chat ChatClient, pipeline BatchRunner, profiles ProfileStore, uploadURL, summaryLang string) *WebhookHandler {
	return &WebhookHandler{
		channelSecret: channelSecret,
		chat:          chat,
		pipeline:      pipeline,
		profiles:      profiles,
		uploadURL:     uploadURL,
		summaryLang:   media.MatchSummaryLanguage(summaryLang),
	}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	// The signature covers the raw body; validate before parsing anything.
	signature := r.Header.Get("X-Line-Signature")
	if !linebot.ValidateSignature(h.channelSecret, signature, body) {
		http.Error(w, "Invalid signature", http.StatusBadRequest)
		return
	}

	req, err := linebot.ParseWebhookRequest(body)
	if err != nil {
		log.Printf("ERROR: Failed to parse webhook request: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.handleEvents(r.Context(), req.Events); err != nil {
		log.Printf("ERROR: Failed to process webhook events: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// mediaBatch groups the media messages of one delivery so the sender gets a
// single summary reply instead of one per file.
type mediaBatch struct {
	replyToken string
	userID     string
	events     []linebot.Event
}

func (h *WebhookHandler) handleEvents(ctx context.Context, events []linebot.Event) error {
	batches := make(map[string]*mediaBatch)

	for _, event := range events {
		if event.Type != linebot.EventTypeMessage || event.Source.Type != "user" {
			continue
		}

		if event.IsMediaMessage() {
			batch, ok := batches[event.Source.UserID]
			if !ok {
				batch = &mediaBatch{
					replyToken: event.ReplyToken,
					userID:     event.Source.UserID,
				}
				batches[event.Source.UserID] = batch
			}
			batch.events = append(batch.events, event)
			continue
		}

		if err := h.handleTextEvent(ctx, event); err != nil {
			// Reply failures are logged, never escalated: the webhook must
			// still acknowledge the delivery.
			log.Printf("ERROR: Failed to reply to event: %v", err)
		}
	}

	for _, batch := range batches {
		if err := h.ingestMediaBatch(ctx, batch); err != nil {
			return err
		}
	}

	return nil
}

func (h *WebhookHandler) handleTextEvent(ctx context.Context, event linebot.Event) error {
	profile, err := h.chat.GetProfile(ctx, event.Source.UserID)
	if err != nil {
		return fmt.Errorf("failed to get profile for %s: %w", event.Source.UserID, err)
	}

	var text string
	if event.IsTextMessage() {
		text = h.commandReply(event.Message.Text, h.uploadURLFor(profile.DisplayName))
	} else {
		text = "サポートされていないメッセージタイプです。"
	}

	return h.chat.ReplyMessage(ctx, event.ReplyToken, linebot.NewTextMessage(text))
}

// uploadURLFor builds the upload page URL carrying the sender's display name
func (h *WebhookHandler) uploadURLFor(displayName string) string {
	return fmt.Sprintf("%s?name=%s&openExternalBrowser=1", h.uploadURL, url.QueryEscape(displayName))
}

// commandReply maps a text command to its reply
func (h *WebhookHandler) commandReply(text, uploadURL string) string {
	switch text {
	case "写真アップロード":
		return uploadURL + "\n上記URLからみんながアップロードした結婚式の写真を見ることができます。\nアップロードしていただけるとうれしいです。\n何かあれば、新郎にお問い合わせください。"
	case "当日の式場の情報":
		return "式場やアクセスの詳細は招待状をご確認ください。\nご不明な点は新郎新婦までご連絡ください。"
	case "アレルギー情報の入力":
		return "当日のコース料理について、アレルギーのある方は\nお手数をおかけしますが、急ぎ新郎または新婦までご連絡ください。"
	case "おしらせ":
		return "現在お知らせはありません。"
	case "座席表":
		return "工事中"
	case "ハロー":
		return "ハローワールド"
	default:
		return "デフォルトメッセージ"
	}
}

// ingestMediaBatch downloads the media of one sender, runs it through the
// upload pipeline as a single batch, refreshes the sender's profile, and
// replies with one localized summary.
func (h *WebhookHandler) ingestMediaBatch(ctx context.Context, batch *mediaBatch) error {
	profile, err := h.chat.GetProfile(ctx, batch.userID)
	if err != nil {
		return fmt.Errorf("failed to get profile for %s: %w", batch.userID, err)
	}

	tmpDir, err := os.MkdirTemp("", "webhook-media-*")
	if err != nil {
		return fmt.Errorf("failed to create spool directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	var files []media.FileSource
	for _, event := range batch.events {
		src, err := h.spoolMessageContent(ctx, tmpDir, event.Message.ID)
		if err != nil {
			log.Printf("WARNING: Skipping message %s: %v", event.Message.ID, err)
			continue
		}
		files = append(files, src)
	}

	if len(files) == 0 {
		return h.chat.ReplyMessage(ctx, batch.replyToken,
			linebot.NewTextMessage("メディアを受け取れませんでした。もう一度お試しください。"))
	}

	result, err := h.pipeline.Run(ctx, files, batch.userID, profile.DisplayName)
	if err != nil {
		return fmt.Errorf("failed to run upload batch: %w", err)
	}

	if err := h.profiles.UpsertUser(ctx, &catalog.UserProfile{
		ID:          profile.UserID,
		DisplayName: profile.DisplayName,
		PictureURL:  profile.PictureURL,
	}); err != nil {
		log.Printf("WARNING: Failed to upsert profile for %s: %v", profile.UserID, err)
	}
	if _, err := h.profiles.SyncDisplayName(ctx, profile.UserID, profile.DisplayName); err != nil {
		log.Printf("WARNING: Failed to sync display name for %s: %v", profile.UserID, err)
	}

	return h.chat.ReplyMessage(ctx, batch.replyToken,
		linebot.NewTextMessage(result.Summary(h.summaryLang)))
}

// spoolMessageContent downloads one media message to a temp file and builds
// its FileSource.
func (h *WebhookHandler) spoolMessageContent(ctx context.Context, dir, messageID string) (media.FileSource, error) {
	body, contentType, err := h.chat.GetMessageContent(ctx, messageID)
	if err != nil {
		return media.FileSource{}, fmt.Errorf("failed to fetch content: %w", err)
	}
	defer body.Close()

	kind, ok := media.KindForContentType(contentType)
	if !ok {
		return media.FileSource{}, fmt.Errorf("%w: %s", media.ErrUnsupportedKind, contentType)
	}

	name := messageID + "." + kind.Ext()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return media.FileSource{}, fmt.Errorf("failed to create spool file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, body)
	if err != nil {
		return media.FileSource{}, fmt.Errorf("failed to spool content: %w", err)
	}

	return media.FileSource{
		Path:        path,
		Name:        name,
		Size:        size,
		ContentType: contentType,
		Kind:        kind,
	}, nil
}
