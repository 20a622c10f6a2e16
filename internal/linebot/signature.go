package linebot

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// ValidateSignature checks a webhook body against its X-Line-Signature
// header. The signature is the base64 HMAC-SHA256 of the raw request body
// keyed with the channel secret, so validation must happen before any
// parsing touches the body.
func ValidateSignature(channelSecret string, signature string, body []byte) bool {
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}
