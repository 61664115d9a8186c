package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.line.me"

// TextMessage is an outbound text message.
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NewTextMessage builds an outbound text message.
func NewTextMessage(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

// Profile is the display info LINE exposes for a user.
type Profile struct {
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl,omitempty"`
}

// GroupSummary is the display info LINE exposes for a group chat.
type GroupSummary struct {
	GroupID    string `json:"groupId"`
	GroupName  string `json:"groupName"`
	PictureURL string `json:"pictureUrl,omitempty"`
}

// Messenger is the outbound surface the bot needs from the platform.
type Messenger interface {
	Reply(ctx context.Context, replyToken string, messages []TextMessage) error
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	GetGroupMemberProfile(ctx context.Context, groupID, userID string) (*Profile, error)
	GetGroupSummary(ctx context.Context, groupID string) (*GroupSummary, error)
}

// Client calls the LINE Messaging API with a channel access token.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// NewClient creates a Messaging API client.
func NewClient(accessToken string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		baseURL:     defaultBaseURL,
		accessToken: accessToken,
	}
}

// WithBaseURL overrides the API origin. Used by tests to point the client at
// a local server.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []TextMessage `json:"messages"`
}

// Reply sends up to five messages in response to a webhook event. A reply
// token is single-use and short-lived, so failures here are logged and
// dropped by callers rather than retried.
func (c *Client) Reply(ctx context.Context, replyToken string, messages []TextMessage) error {
	if len(messages) == 0 {
		return nil
	}
	if len(messages) > 5 {
		messages = messages[:5]
	}

	body, err := json.Marshal(replyRequest{ReplyToken: replyToken, Messages: messages})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/bot/message/reply", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("line reply failed: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}

// GetProfile fetches a user's display name and avatar.
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, "/v2/bot/profile/"+userID, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetGroupMemberProfile fetches a group member's display name and avatar.
// Only works while the bot is a member of the group.
func (c *Client) GetGroupMemberProfile(ctx context.Context, groupID, userID string) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, "/v2/bot/group/"+groupID+"/member/"+userID, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetGroupSummary fetches a group chat's name and icon.
func (c *Client) GetGroupSummary(ctx context.Context, groupID string) (*GroupSummary, error) {
	var summary GroupSummary
	if err := c.get(ctx, "/v2/bot/group/"+groupID+"/summary", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("line api %s failed: status %d: %s", path, resp.StatusCode, detail)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
