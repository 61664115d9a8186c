package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"jodtang/internal/logger"
)

// LineSignature verifies the X-Line-Signature header against the raw request
// body using HMAC-SHA256 with the channel secret. The body is restored on the
// request so downstream handlers can bind it normally. Requests that fail
// verification are rejected before any handler runs.
func LineSignature(channelSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		signature := c.GetHeader("X-Line-Signature")
		if signature == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing signature"})
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read request body"})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !ValidSignature(channelSecret, signature, body) {
			logger.Get().Warnw("webhook signature mismatch",
				"client_ip", c.ClientIP(),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ValidSignature reports whether signature is the base64-encoded HMAC-SHA256
// digest of body under the channel secret. Comparison is constant-time.
func ValidSignature(channelSecret, signature string, body []byte) bool {
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}
