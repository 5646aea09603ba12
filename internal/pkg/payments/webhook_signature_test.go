package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","data":{"object":{"id":"cs_1"}}}`)
	secret := "whsec_test"

	sig := signPayload(payload, secret)

	assert.True(t, VerifyWebhookSignature(payload, sig, secret))
	assert.True(t, VerifyWebhookSignature(payload, strings.ToUpper(sig), secret))
	assert.True(t, VerifyWebhookSignature(payload, "  "+sig+"  ", secret))
}

func TestVerifyWebhookSignature_Rejects(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	secret := "whsec_test"
	sig := signPayload(payload, secret)

	assert.False(t, VerifyWebhookSignature(payload, sig, "wrong_secret"))
	assert.False(t, VerifyWebhookSignature([]byte(`{"id":"evt_2"}`), sig, secret))
	assert.False(t, VerifyWebhookSignature(payload, "", secret))
	assert.False(t, VerifyWebhookSignature(payload, sig, ""))
	assert.False(t, VerifyWebhookSignature(payload, "not-hex!", secret))
}
