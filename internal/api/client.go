package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomz197/mathblaster/internal/practice"
	"github.com/tomz197/mathblaster/internal/storage"
)

// DefaultTimeout bounds every client request.
const DefaultTimeout = 5 * time.Second

var (
	// ErrUnavailable means the service could not be reached or failed internally.
	ErrUnavailable = errors.New("service unavailable")
	// ErrUnauthorized is returned for rejected credentials.
	ErrUnauthorized = errors.New("invalid username or password")
)

// Client talks to the problem and profile service.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// Password is used when CreateProfile registers a new player. When empty
	// a random one is generated.
	Password string
}

// New creates a new API client. timeout <= 0 selects DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Request implements practice.ProblemOracle.
func (c *Client) Request(ctx context.Context, level int) (practice.Problem, error) {
	var resp response
	if err := c.do(ctx, http.MethodPost, PathGenerateProblem, problemRequest{Level: &level}, &resp); err != nil {
		return practice.Problem{}, err
	}
	if resp.Problem == nil {
		return practice.Problem{}, fmt.Errorf("%w: response has no problem", practice.ErrMalformed)
	}
	p := resp.Problem.toProblem()
	p.ID = uuid.NewString()
	return p, nil
}

// Login checks credentials and returns the stored profile.
func (c *Client) Login(ctx context.Context, username, password string) (storage.Profile, error) {
	return c.profileCall(ctx, http.MethodPost, PathLogin, credentials{Username: username, Password: password})
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, username, password string) (storage.Profile, error) {
	return c.profileCall(ctx, http.MethodPost, PathRegister, credentials{Username: username, Password: password})
}

// CreateProfile implements storage.Backend by registering username.
func (c *Client) CreateProfile(ctx context.Context, username string) (storage.Profile, error) {
	password := c.Password
	if password == "" {
		password = uuid.NewString()
	}
	return c.Register(ctx, username, password)
}

// LoadProfile implements storage.ProfileStore.
func (c *Client) LoadProfile(ctx context.Context, username string) (storage.Profile, error) {
	return c.profileCall(ctx, http.MethodGet, PathUser+url.PathEscape(username), nil)
}

// SaveAmmunition implements storage.Sink.
func (c *Client) SaveAmmunition(ctx context.Context, username string, counts map[int]int) error {
	return c.do(ctx, http.MethodPost, PathSaveAmmunition, ammunitionRequest{Username: username, AmmunitionBanks: counts}, nil)
}

// SaveStats implements storage.Sink.
func (c *Client) SaveStats(ctx context.Context, username string, stats storage.Stats) error {
	return c.do(ctx, http.MethodPost, PathSaveStats, statsRequest{Username: username, GameStats: stats}, nil)
}

// SaveSettings stores username's settings.
func (c *Client) SaveSettings(ctx context.Context, username string, settings storage.Settings) error {
	return c.do(ctx, http.MethodPost, PathSaveSettings, settingsRequest{Username: username, Settings: settings}, nil)
}

func (c *Client) profileCall(ctx context.Context, method, path string, body any) (storage.Profile, error) {
	var resp response
	if err := c.do(ctx, method, path, body, &resp); err != nil {
		return storage.Profile{}, err
	}
	if resp.UserData == nil {
		return storage.Profile{}, fmt.Errorf("%w: response has no user data", ErrUnavailable)
	}
	return *resp.UserData, nil
}

// do sends body as JSON and decodes the reply into out when non-nil.
// Status codes map onto the storage and api sentinel errors.
func (c *Client) do(ctx context.Context, method, path string, body any, out *response) error {
	var payload io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	var decoded response
	decodeErr := json.NewDecoder(resp.Body).Decode(&decoded)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", storage.ErrUserNotFound, decoded.Message)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", storage.ErrUserExists, decoded.Message)
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s returned status %d", ErrUnavailable, path, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, decoded.Message)
	}

	if decodeErr != nil {
		return fmt.Errorf("%w: decode %s: %v", practice.ErrMalformed, path, decodeErr)
	}
	if !decoded.Success {
		return fmt.Errorf("%s failed: %s", path, decoded.Message)
	}
	if out != nil {
		*out = decoded
	}
	return nil
}
