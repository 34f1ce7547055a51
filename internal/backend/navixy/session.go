package navixy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"dockassign/internal/service"
)

// ErrEmptyHash is returned when authentication succeeds without a session hash.
var ErrEmptyHash = errors.New("user/auth returned an empty hash")

// StaticSession returns a token source for a known session hash.
// The hash travels as the oauth2 access token.
func StaticSession(hash string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: hash})
}

// LoginSession returns a token source that exchanges login and password for a
// session hash on first use and reuses it afterwards.
// The client resolves it with the request context, so the first call honours
// cancellation and api.timeout.
func LoginSession(httpClient *http.Client, baseURL, login, password string) oauth2.TokenSource {
	return &loginSource{
		http:     httpClient,
		baseURL:  strings.TrimRight(baseURL, "/"),
		login:    login,
		password: password,
		sem:      make(chan struct{}, 1),
	}
}

// contextTokenSource is a token source that can be bounded by a context.
type contextTokenSource interface {
	TokenContext(ctx context.Context) (*oauth2.Token, error)
}

type loginSource struct {
	http     *http.Client
	baseURL  string
	login    string
	password string

	// sem guards tok; a buffered channel so waiters can give up on ctx.
	sem chan struct{}
	tok *oauth2.Token
}

func (s *loginSource) Token() (*oauth2.Token, error) {
	return s.TokenContext(context.Background())
}

func (s *loginSource) TokenContext(ctx context.Context) (*oauth2.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-s.sem }()

	if s.tok.Valid() {
		return s.tok, nil
	}

	hash, err := Authenticate(ctx, s.http, s.baseURL, s.login, s.password)
	if err != nil {
		var apiErr *service.APIError
		if errors.As(err, &apiErr) || errors.Is(err, ErrEmptyHash) {
			return nil, fmt.Errorf("%w: %w", service.ErrUnauthorized, err)
		}
		return nil, err
	}
	s.tok = &oauth2.Token{AccessToken: hash}
	return s.tok, nil
}

type authRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authResponse struct {
	Success bool       `json:"success"`
	Hash    string     `json:"hash"`
	Status  *apiStatus `json:"status,omitempty"`
}

// Authenticate exchanges login and password for a session hash via user/auth.
func Authenticate(ctx context.Context, httpClient *http.Client, baseURL, login, password string) (string, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := NewWithHTTPClient(httpClient, baseURL, nil)

	req, err := newJSONRequest(ctx, c.endpoint(actionUserAuth, ""), authRequest{
		Login:    login,
		Password: password,
	})
	if err != nil {
		return "", err
	}

	var resp authResponse
	if err := c.do(req, actionUserAuth, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", apiError(actionUserAuth, resp.Status)
	}
	if resp.Hash == "" {
		return "", ErrEmptyHash
	}
	return resp.Hash, nil
}
