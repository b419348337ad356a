package public

import (
	"strings"
	"testing"
)

func TestWebhookRawBodyForLog(t *testing.T) {
	small := []byte(`{"event":"payment.captured"}`)
	if got := webhookRawBodyForLog(small); got != string(small) {
		t.Fatalf("small body should pass through, got %q", got)
	}

	large := []byte(strings.Repeat("a", webhookRawBodyLogLimit+100))
	got := webhookRawBodyForLog(large)
	if len(got) != webhookRawBodyLogLimit {
		t.Fatalf("large body should be truncated to %d, got %d", webhookRawBodyLogLimit, len(got))
	}
}
