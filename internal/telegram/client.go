// Package telegram is a minimal Telegram Bot API client covering the calls
// the notifier needs: sending and editing status messages, uploading log and
// artifact files, and pinning the final summary.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/romci/cli/internal/errors"
	"github.com/spf13/afero"
)

// DefaultBaseURL is the Bot API endpoint
const DefaultBaseURL = "https://api.telegram.org"

// Client talks to the Telegram Bot API for one bot token
type Client struct {
	baseURL string
	token   string
	fs      afero.Fs
	client  *retryablehttp.Client
}

// Option modifies a Client
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used in tests
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithFs overrides the filesystem documents are read from
func WithFs(fs afero.Fs) Option {
	return func(c *Client) {
		c.fs = fs
	}
}

// New creates a Client for the given bot token. Connection errors and
// 500-range responses are retried automatically.
func New(token string, opts ...Option) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.HTTPClient.Timeout = 30 * time.Second
	httpClient.RetryMax = 3
	httpClient.Logger = nil

	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		fs:      afero.NewOsFs(),
		client:  httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// SendMessage posts an HTML-formatted message and returns its message id
func (c *Client) SendMessage(ctx context.Context, chatID, text string) (int64, error) {
	form := url.Values{
		"chat_id":                  {chatID},
		"text":                     {text},
		"parse_mode":               {"html"},
		"disable_web_page_preview": {"true"},
	}

	resp, err := c.postForm(ctx, "sendMessage", form)
	if err != nil {
		return 0, err
	}
	return resp.Result.MessageID, nil
}

// EditMessage replaces the text of a previously sent message
func (c *Client) EditMessage(ctx context.Context, chatID string, messageID int64, text string) error {
	form := url.Values{
		"chat_id":                  {chatID},
		"message_id":               {strconv.FormatInt(messageID, 10)},
		"text":                     {text},
		"parse_mode":               {"html"},
		"disable_web_page_preview": {"true"},
	}

	_, err := c.postForm(ctx, "editMessageText", form)
	return err
}

// PinMessage pins a message in the chat
func (c *Client) PinMessage(ctx context.Context, chatID string, messageID int64) error {
	form := url.Values{
		"chat_id":    {chatID},
		"message_id": {strconv.FormatInt(messageID, 10)},
	}

	_, err := c.postForm(ctx, "pinChatMessage", form)
	return err
}

// SendDocument uploads a file to the chat
func (c *Client) SendDocument(ctx context.Context, chatID, path string) error {
	file, err := c.fs.Open(path)
	if err != nil {
		return errors.NewNotifyError(err, fmt.Sprintf("opening %s", path))
	}
	defer file.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("chat_id", chatID); err != nil {
		return err
	}
	part, err := mw.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.method("sendDocument"), body.Bytes())
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	_, err = c.do(req)
	return err
}

func (c *Client) method(name string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, name)
}

func (c *Client) postForm(ctx context.Context, name string, form url.Values) (*apiResponse, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.method(name),
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

func (c *Client) do(req *retryablehttp.Request) (*apiResponse, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.NewNotifyError(err, "telegram request")
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.NewNotifyError(err, "decoding telegram response")
	}
	if !parsed.OK {
		return nil, errors.NewNotifyError(nil,
			fmt.Sprintf("telegram API rejected the request: %s", parsed.Description))
	}
	return &parsed, nil
}
