package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client talks to a Supabase-compatible auth API.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}
}

type providerUser struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata userMetadata `json:"user_metadata"`
}

func (u providerUser) principal() *Principal {
	return &Principal{ID: u.ID, Email: u.Email, Name: u.UserMetadata.displayName()}
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	TokenType    string       `json:"token_type"`
	User         providerUser `json:"user"`
}

// Principal returns the signed-in user.
func (s *Session) Principal() *Principal {
	return s.User.principal()
}

// User resolves an access token to the provider's user record.
func (c *Client) User(ctx context.Context, token string) (*Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var u providerUser
	if err := c.do(req, &u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, ErrInvalid
	}
	return u.principal(), nil
}

// SignIn performs the password grant and returns the new session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	var s Session
	if err := c.do(req, &s); err != nil {
		return nil, err
	}
	if s.AccessToken == "" {
		return nil, ErrInvalid
	}
	return &s, nil
}

// SignUp registers an account and stores name in the user's metadata. When
// the provider requires email confirmation it answers with the bare user and
// the returned session has no AccessToken.
func (c *Client) SignUp(ctx context.Context, email, name, password string) (*Session, error) {
	body, err := json.Marshal(map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/auth/v1/signup", bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	var resp struct {
		Session
		providerUser
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	s := resp.Session
	if s.User.ID == "" {
		s.User = resp.providerUser
	}
	if s.User.ID == "" {
		return nil, &ProviderError{Err: errors.New("sign-up returned no user")}
	}
	return &s, nil
}

func (c *Client) do(req *http.Request, out any) error {
	if c.APIKey != "" {
		req.Header.Set("apikey", c.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &ProviderError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrInvalid
	case resp.StatusCode == http.StatusBadRequest && strings.Contains(req.URL.RawQuery, "grant_type"):
		// bad credentials on sign-in
		return fmt.Errorf("%w: %s", ErrInvalid, readProviderMessage(resp.Body))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &ProviderError{Status: resp.StatusCode, Err: errors.New(readProviderMessage(resp.Body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func readProviderMessage(r io.Reader) string {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}
	data, _ := io.ReadAll(io.LimitReader(r, 4<<10))
	if json.Unmarshal(data, &body) == nil {
		for _, m := range []string{body.ErrorDescription, body.Msg, body.Message} {
			if m != "" {
				return m
			}
		}
	}
	if s := strings.TrimSpace(string(data)); s != "" {
		return s
	}
	return "unexpected response"
}

// RemoteVerifier asks the provider about every token.
type RemoteVerifier struct {
	Client *Client
}

func NewRemoteVerifier(baseURL, apiKey string) *RemoteVerifier {
	return &RemoteVerifier{Client: NewClient(baseURL, apiKey)}
}

func (v *RemoteVerifier) Verify(ctx context.Context, token string) (*Principal, error) {
	return v.Client.User(ctx, token)
}
