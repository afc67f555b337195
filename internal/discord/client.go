package discord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BaseURL is the root of the Discord REST API.
const BaseURL = "https://discord.com/api/v10"

// Client is a thin HTTP client for the two Discord REST calls the notifier
// needs: opening a DM channel with a user and posting a message to it.
// Requests authenticate with a bot token. There is no retry; a failed send
// is reported to the caller and never re-attempted.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	// DM channel ids per recipient, so the channel is created once and
	// reused for every later send.
	dmChannels map[string]string
}

// New creates a Discord client authenticating with the given bot token.
func New(token string) *Client {
	return &Client{
		baseURL: BaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		dmChannels: make(map[string]string),
	}
}

type channelResponse struct {
	ID string `json:"id"`
}

// SendDirectMessage delivers content to the recipient's DM channel,
// establishing the channel first if this is the first send to that user.
func (c *Client) SendDirectMessage(recipientID, content string) error {
	channelID, err := c.dmChannel(recipientID)
	if err != nil {
		return fmt.Errorf("opening DM channel: %w", err)
	}

	payload := map[string]string{"content": content}
	if err := c.post("/channels/"+channelID+"/messages", payload, nil); err != nil {
		return fmt.Errorf("sending message: %w", err)
	}

	return nil
}

// dmChannel returns the cached DM channel id for the recipient, asking the
// API to create one on first use.
func (c *Client) dmChannel(recipientID string) (string, error) {
	if id, ok := c.dmChannels[recipientID]; ok {
		return id, nil
	}

	var channel channelResponse
	payload := map[string]string{"recipient_id": recipientID}
	if err := c.post("/users/@me/channels", payload, &channel); err != nil {
		return "", err
	}
	if channel.ID == "" {
		return "", fmt.Errorf("no channel id in create-DM response")
	}

	c.dmChannels[recipientID] = channel.ID
	return channel.ID, nil
}

// post performs an HTTP POST with a JSON body and unmarshals the JSON
// response into result when result is non-nil. Non-2xx responses become an
// *APIError.
func (c *Client) post(path string, body, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request POST %s: %w", path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if result == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from POST %s: %w", path, err)
	}

	return nil
}
