package rfidapi

import (
	"context"
	"net/http"
	"strings"
)

// Credentials are attached to every device request when non-empty.
type Credentials struct {
	// Token is sent as "Authorization: Bearer <token>".
	Token string
	// APIKey is sent as Moonraker's X-Api-Key header.
	APIKey string
}

// CredentialProvider supplies credentials per call. Implementations may
// refresh tokens; errors abort the request as transport failures.
type CredentialProvider interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// StaticCredentials always returns the same credentials.
type StaticCredentials Credentials

func (s StaticCredentials) Credentials(context.Context) (Credentials, error) {
	return Credentials(s), nil
}

func (c Credentials) apply(req *http.Request) {
	if token := strings.TrimSpace(c.Token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if key := strings.TrimSpace(c.APIKey); key != "" {
		req.Header.Set("X-Api-Key", key)
	}
}
