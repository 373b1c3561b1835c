package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"
)

// MailClient posts transactional mail to an HTTP mail relay. When no relay
// is configured, sends are skipped with a log line.
type MailClient struct {
	webhookURL string
	from       string
	client     *http.Client
	logger     *zap.Logger
}

type mailMessage struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

func NewMailClient(logger *zap.Logger) *MailClient {
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "noreply@example.com"
	}
	return &MailClient{
		webhookURL: os.Getenv("MAIL_WEBHOOK_URL"),
		from:       from,
		client:     &http.Client{},
		logger:     logger,
	}
}

// SendInvitation mails the join link for a freshly issued invitation token.
func (c *MailClient) SendInvitation(orgName, joinURL, recipient string) error {
	subject := fmt.Sprintf("Organization %s invites you to join it", orgName)
	body := "To accept the invitation click the link below:\n\n" + joinURL
	return c.Send(subject, body, []string{recipient})
}

func (c *MailClient) Send(subject, body string, to []string) error {
	if c.webhookURL == "" {
		c.logger.Info("no MAIL_WEBHOOK_URL configured, skipping mail", zap.Strings("to", to))
		return nil
	}

	payload, err := json.Marshal(mailMessage{
		From:    c.from,
		To:      to,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	resp, err := c.client.Post(c.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("post error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail relay error: %s", string(raw))
	}

	return nil
}
