package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vrsandeep/telly-go/internal/config"
)

// SlackNotifier posts reports as block messages over the Slack Web API,
// opening a direct-message channel per recipient.
type SlackNotifier struct {
	httpc  *http.Client
	apiURL string
	token  string
}

// NewSlackNotifier creates a notifier from the application configuration.
func NewSlackNotifier(cfg *config.Config) *SlackNotifier {
	return &SlackNotifier{
		httpc:  &http.Client{Timeout: 15 * time.Second},
		apiURL: strings.TrimSuffix(cfg.Slack.APIURL, "/"),
		token:  cfg.Slack.BotToken,
	}
}

// SendReport opens an IM with the recipient and posts the report.
func (n *SlackNotifier) SendReport(ctx context.Context, recipientID, report string) error {
	channelID, err := n.openConversation(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("opening conversation with %s: %w", recipientID, err)
	}

	blocks := []map[string]interface{}{
		{
			"type": "context",
			"elements": []map[string]string{
				{"type": "mrkdwn", "text": "Daily watchlist report"},
			},
		},
		{
			"type": "section",
			"text": map[string]string{"type": "mrkdwn", "text": report},
		},
	}

	var resp struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	err = n.post(ctx, "chat.postMessage", map[string]interface{}{
		"channel": channelID,
		"blocks":  blocks,
	}, &resp)
	if err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("slack rejected message for %s: %s", recipientID, resp.Error)
	}
	return nil
}

func (n *SlackNotifier) openConversation(ctx context.Context, recipientID string) (string, error) {
	var resp struct {
		OK      bool   `json:"ok"`
		Error   string `json:"error"`
		Channel struct {
			ID string `json:"id"`
		} `json:"channel"`
	}
	err := n.post(ctx, "conversations.open", map[string]interface{}{
		"users": recipientID,
	}, &resp)
	if err != nil {
		return "", err
	}
	if !resp.OK {
		return "", fmt.Errorf("slack error: %s", resp.Error)
	}
	return resp.Channel.ID, nil
}

func (n *SlackNotifier) post(ctx context.Context, method string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/%s", n.apiURL, method), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+n.token)

	resp, err := n.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack %s returned status %d", method, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
