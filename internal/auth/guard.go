package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bleupos/promo-service/internal/models"
)

// User is the identity returned by the authentication service.
type User struct {
	Username string `json:"username"`
	Role     string `json:"userRole"`
}

// Guard validates bearer credentials against the external identity
// service and enforces per-operation role allow-lists.
type Guard struct {
	meURL  string
	client *http.Client
}

func NewGuard(meURL string) *Guard {
	return &Guard{
		meURL:  meURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Authorize resolves the token via the identity service and checks the
// resulting role against allowedRoles. Upstream non-2xx responses are
// surfaced with their original status code; network failures map to a
// 503-class error.
func (g *Guard) Authorize(ctx context.Context, token string, allowedRoles ...string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.meURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &models.UnavailableError{Service: "authentication", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read auth response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.AuthServiceError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}

	for _, role := range allowedRoles {
		if user.Role == role {
			return &user, nil
		}
	}
	return nil, &models.ForbiddenError{Role: user.Role}
}
