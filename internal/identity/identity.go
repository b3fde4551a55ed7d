// Package identity resolves bearer tokens to the external identity provider's
// user. The backend never stores credentials; it only trusts a verified
// Principal.
package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrMissing means the request carried no usable bearer token.
	ErrMissing = errors.New("missing bearer token")
	// ErrInvalid means the provider rejected the token or returned no user.
	ErrInvalid = errors.New("invalid token")
)

// ProviderError is a transport or unexpected-status failure talking to the
// identity provider. It is never an authentication verdict.
type ProviderError struct {
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("identity provider: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("identity provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Principal is the authenticated caller.
type Principal struct {
	ID    string
	Email string
	Name  string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

var bearerRe = regexp.MustCompile(`^Bearer (.+)$`)

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	m := bearerRe.FindStringSubmatch(header)
	if m == nil {
		return "", ErrMissing
	}
	token := strings.TrimSpace(m[1])
	if token == "" {
		return "", ErrMissing
	}
	return token, nil
}

// userMetadata is the provider's free-form profile blob.
type userMetadata struct {
	FullName string `json:"full_name"`
	Name     string `json:"name"`
}

func (m userMetadata) displayName() string {
	if m.FullName != "" {
		return m.FullName
	}
	return m.Name
}

// StaticVerifier maps fixed tokens to principals. Useful for tests and local
// development without a provider.
type StaticVerifier map[string]Principal

func (v StaticVerifier) Verify(_ context.Context, token string) (*Principal, error) {
	p, ok := v[token]
	if !ok {
		return nil, ErrInvalid
	}
	return &p, nil
}
