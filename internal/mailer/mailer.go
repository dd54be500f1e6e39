package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"eventhub/pkg/config"
)

const defaultAPIURL = "https://api.resend.com/emails"

// Client delivers mail through an HTTP email API. An empty API key
// selects dry mode: the attempt is logged and reported as delivered
// without any network contact, which is a legitimate deployment mode
// for non-production environments.
type Client struct {
	apiKey string
	apiURL string
	from   string
	http   *http.Client
	logger *zap.Logger
}

func NewClient(cfg config.MailConfig, logger *zap.Logger) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		apiKey: cfg.APIKey,
		apiURL: apiURL,
		from:   cfg.From,
		http:   &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send attempts delivery of one message.
func (c *Client) Send(ctx context.Context, to, subject, html string) error {
	if c.apiKey == "" {
		c.logger.Info("Mail transport in dry mode, logging instead of sending",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	body, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call mail API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail API returned %d: %s", resp.StatusCode, string(detail))
	}

	c.logger.Info("Email delivered",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
