package notify

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
)

// SendPasswordReset posts the reset token to the notification webhook (the
// mailer service picks it up and sends the actual email). A missing
// NOTIFY_WEBHOOK_URL turns this into a no-op. Best-effort: failures are
// logged, never surfaced to the requester.
func SendPasswordReset(email, token string) {
	url := os.Getenv("NOTIFY_WEBHOOK_URL")
	if url == "" {
		return
	}

	payload := map[string]string{
		"type":  "password_reset",
		"email": email,
		"token": token,
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Printf("notify: password reset webhook failed: %v", err)
		return
	}
	defer resp.Body.Close()
}
