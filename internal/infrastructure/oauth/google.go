// Package oauth turns browser-obtained provider tokens into verified
// identity claims. The browser round-trip itself happens on the client;
// this side only sees the resulting access token.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/moodayhq/mooday-go/internal/domain/user"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
)

// GoogleExchanger validates a Google access token against the userinfo
// endpoint and extracts the verified email claim.
type GoogleExchanger struct {
	userinfoURL string
	httpClient  *http.Client
	logger      *logging.ChanneledLogger
}

// NewGoogleExchanger creates a new exchanger against the given userinfo URL.
func NewGoogleExchanger(userinfoURL string, logger *logging.ChanneledLogger) *GoogleExchanger {
	return &GoogleExchanger{
		userinfoURL: userinfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

var _ user.OAuthExchanger = (*GoogleExchanger)(nil)

type userinfoResponse struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Exchange resolves an access token to its identity claim.
func (g *GoogleExchanger) Exchange(ctx context.Context, accessToken string) (*user.OAuthClaim, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Auth().Error("Userinfo request failed", "error", err.Error())
		return nil, fmt.Errorf("%w: %v", user.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Auth().Warn("Userinfo request rejected", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: provider rejected access token", user.ErrInvalidCredentials)
	}

	var info userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%w: provider returned no email", user.ErrInvalidCredentials)
	}

	return &user.OAuthClaim{
		Subject:       info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
	}, nil
}
