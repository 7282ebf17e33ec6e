package fiery

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// Per-operation deadlines. The held-jobs listing can be slow on a busy
// controller, everything else is a quick single-job call.
const (
	defaultTimeout  = 10 * time.Second
	listJobsTimeout = 60 * time.Second
)

// ErrorKind classifies a failed API call so callers can branch on whether
// the failure is fatal to the run or scoped to one job.
type ErrorKind string

const (
	KindAuth     ErrorKind = "auth"
	KindNetwork  ErrorKind = "network"
	KindHTTP     ErrorKind = "http"
	KindDecode   ErrorKind = "decode"
	KindMismatch ErrorKind = "mismatch"
)

// APIError is the typed result of a failed Fiery API call.
type APIError struct {
	Kind   ErrorKind
	Op     string
	Status int
	Err    error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fiery %s failed [%s] status %d: %v", e.Op, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("fiery %s failed [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsAuth reports whether err is an authentication rejection.
func IsAuth(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

// HeldJob is one job in the controller's held queue.
type HeldJob struct {
	ID    json.Number `json:"id"`
	Title string      `json:"title"`
}

// Client talks to the Fiery REST API v5 on one controller. Fiery sessions
// ride on a cookie issued at login, and the controllers present self-signed
// certificates, so the transport skips TLS verification.
type Client struct {
	http     *http.Client
	baseURL  string
	username string
	password string
	apiKey   string
}

func NewClient(ip, username, password, apiKey string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		http: &http.Client{
			Jar: jar,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		baseURL:  fmt.Sprintf("https://%s/live/api/v5", ip),
		username: username,
		password: password,
		apiKey:   apiKey,
	}
}

// Login establishes the API session. A rejected key or credential pair is
// KindAuth; the run must not proceed past it.
func (c *Client) Login(ctx context.Context) error {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("username", c.username)
	params.Set("password", c.password)
	loginURL := fmt.Sprintf("%s/login?%s", c.baseURL, params.Encode())

	log.Info().Str("url", c.baseURL).Msg("Logging into Fiery API")

	var result struct {
		Data struct {
			Item struct {
				Authenticated bool `json:"authenticated"`
			} `json:"item"`
		} `json:"data"`
	}
	if err := c.do(ctx, "login", http.MethodPost, loginURL, nil, defaultTimeout, &result); err != nil {
		return err
	}
	if !result.Data.Item.Authenticated {
		return &APIError{Kind: KindAuth, Op: "login", Err: fmt.Errorf("controller rejected credentials or api key")}
	}

	log.Info().Msg("Authenticated with Fiery API")
	return nil
}

// ListHeldJobs returns the current held queue, the single snapshot all
// matching runs against.
func (c *Client) ListHeldJobs(ctx context.Context) ([]HeldJob, error) {
	log.Debug().Msg("Retrieving held jobs")

	var result struct {
		Data struct {
			Items []HeldJob `json:"items"`
		} `json:"data"`
	}
	if err := c.do(ctx, "list held jobs", http.MethodGet, c.baseURL+"/jobs/held", nil, listJobsTimeout, &result); err != nil {
		return nil, err
	}

	log.Info().Int("count", len(result.Data.Items)).Msg("Retrieved held jobs")
	return result.Data.Items, nil
}

// SetCopyCount sets the copy attribute on one held job. The controller
// echoes the job id back; anything else means the update did not land.
func (c *Client) SetCopyCount(ctx context.Context, jobID string, copies int) error {
	log.Debug().Str("job_id", jobID).Int("copies", copies).Msg("Setting job copy count")

	payload := map[string]any{
		"attributes": map[string]string{
			// The controller wants the count as a string.
			"numcopies": fmt.Sprintf("%d", copies),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return &APIError{Kind: KindDecode, Op: "set copies", Err: err}
	}

	var result struct {
		Data struct {
			Item struct {
				ID json.Number `json:"id"`
			} `json:"item"`
		} `json:"data"`
	}
	jobURL := fmt.Sprintf("%s/jobs/%s", c.baseURL, url.PathEscape(jobID))
	if err := c.do(ctx, "set copies", http.MethodPut, jobURL, body, defaultTimeout, &result); err != nil {
		return err
	}
	if result.Data.Item.ID.String() != jobID {
		return &APIError{
			Kind: KindMismatch,
			Op:   "set copies",
			Err:  fmt.Errorf("controller returned job id %q, want %q", result.Data.Item.ID.String(), jobID),
		}
	}
	return nil
}

// ReleaseToPrint releases a held job for output.
func (c *Client) ReleaseToPrint(ctx context.Context, jobID string) error {
	log.Debug().Str("job_id", jobID).Msg("Releasing job to print")

	printURL := fmt.Sprintf("%s/jobs/%s/print", c.baseURL, url.PathEscape(jobID))
	return c.do(ctx, "print", http.MethodPut, printURL, []byte("{}"), defaultTimeout, nil)
}

func (c *Client) do(ctx context.Context, op, method, reqURL string, body []byte, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return &APIError{Kind: KindNetwork, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: KindNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		kind := KindHTTP
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			kind = KindAuth
		}
		return &APIError{
			Kind:   kind,
			Op:     op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", string(respBody)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Kind: KindDecode, Op: op, Err: err}
	}
	return nil
}
