// Package notify provides the Telegram notification client.
//
// Notifications are strictly best-effort: a missing token disables the client
// without error, send failures are logged and dropped, and every call is
// bounded by the configured HTTP timeout so a slow API can never stall the
// progress reporter.
package notify

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mwalsh/harrier/internal/config"
)

// defaultBaseURL is the Telegram Bot API endpoint.
const defaultBaseURL = "https://api.telegram.org"

// MaxMessageLen is the ceiling applied to outgoing messages. Telegram rejects
// messages above 4096 characters; callers are expected to summarize, this is
// the last-resort cut.
const MaxMessageLen = 4000

// Logger is the optional logging surface the client uses.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Telegram sends messages to a chat via the Bot API sendMessage method with
// Telegram's HTML markup subset. Create once, use from any goroutine.
type Telegram struct {
	token      string
	chatID     string
	baseURL    string
	httpClient *http.Client
	logger     Logger
}

// NewTelegram creates a Telegram client from configuration. If credentials
// are absent the client is disabled and every Send is a silent no-op.
func NewTelegram(cfg config.TelegramConfig, logger Logger) *Telegram {
	return &Telegram{
		token:   cfg.BotToken,
		chatID:  cfg.ChatID,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Enabled reports whether the client has credentials to send with.
func (t *Telegram) Enabled() bool {
	return t.token != "" && t.chatID != ""
}

// Send delivers a message best-effort. Oversized messages are truncated,
// failures are logged and swallowed, and there are no retries; a missed
// message is acceptable.
func (t *Telegram) Send(text string) {
	if !t.Enabled() {
		if t.logger != nil {
			t.logger.Debugf("telegram disabled, message skipped (%d chars)", len(text))
		}
		return
	}

	if len(text) > MaxMessageLen {
		text = text[:MaxMessageLen]
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	form := url.Values{
		"chat_id":    {t.chatID},
		"text":       {text},
		"parse_mode": {"HTML"},
	}

	resp, err := t.httpClient.PostForm(endpoint, form)
	if err != nil {
		if t.logger != nil {
			t.logger.Warnf("telegram send failed: %v", err)
		}
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if t.logger != nil {
			t.logger.Warnf("telegram send failed: status %s", resp.Status)
		}
	}
}

// Escape replaces the characters Telegram's HTML parse mode treats as markup.
func Escape(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}
