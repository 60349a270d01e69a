// Package telegram verifies bot tokens against the Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrInvalidToken means the provider answered and rejected the token. This
// is the one channel outcome the provisioning workflow treats as fatal; a
// provider that cannot be reached is not proof the token is bad.
var ErrInvalidToken = errors.New("invalid Telegram bot token")

// DefaultAPIBase is the production Bot API endpoint.
const DefaultAPIBase = "https://api.telegram.org"

// Verifier checks bot tokens. The API base is overridable for tests.
type Verifier struct {
	endpoint string
	client   *http.Client
}

// NewVerifier creates a verifier against the given API base URL.
func NewVerifier(baseURL string) *Verifier {
	if baseURL == "" {
		baseURL = DefaultAPIBase
	}
	return &Verifier{
		endpoint: strings.TrimRight(baseURL, "/") + "/bot%s/%s",
		client:   &http.Client{Timeout: 8 * time.Second},
	}
}

// Verify performs the Bot API's getMe handshake and returns the bot's public
// username. A reachable provider rejecting the token returns ErrInvalidToken;
// transport failures return an ordinary error the caller may degrade on.
// Cancellation is bounded by the client timeout.
func (v *Verifier) Verify(ctx context.Context, token string) (string, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, v.endpoint, v.client)
	if err != nil {
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("telegram: getMe: %w", err)
	}

	username := strings.TrimSpace(bot.Self.UserName)
	if username == "" {
		username = "unknown"
	}
	return username, nil
}
