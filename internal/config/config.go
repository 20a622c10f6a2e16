package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port         string
	GCPProjectID string
	Environment  string
	// Media pipeline configuration
	GCSBucketName     string
	MediaCollection   string
	ConcurrentUploads int
	MaxUploadMB       int
	SummaryLang       string
	// Chat bot configuration
	LineChannelSecret string
	LineChannelToken  string
	UploadURL         string
}

func Load() Config {
	return Config{
		Port:              getEnv("PORT", "8080"),
		GCPProjectID:      getEnv("GCP_PROJECT_ID", "wedding-media"),
		Environment:       getEnv("GO_ENV", "production"),
		GCSBucketName:     getEnv("GCS_BUCKET_NAME", "wedding-media-uploads"),
		MediaCollection:   getEnv("MEDIA_COLLECTION", "media"),
		ConcurrentUploads: getEnvInt("CONCURRENT_UPLOADS", 4),
		MaxUploadMB:       getEnvInt("MAX_UPLOAD_MB", 500),
		SummaryLang:       getEnv("SUMMARY_LANG", "ja"),
		LineChannelSecret: getEnv("LINE_CHANNEL_SECRET", ""),
		LineChannelToken:  getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		UploadURL:         getEnv("UPLOAD_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
