package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"collabuu-backend/apperr"
)

// Resolution is the answer of POST /api/scan/resolve.
type Resolution struct {
	Valid  bool            `json:"valid"`
	Type   string          `json:"type"`
	Target json.RawMessage `json:"target,omitempty"`
	// Sample marks a resolution served from local sample data.
	Sample bool `json:"-"`
}

type Outcome struct {
	RecordID      string `json:"record_id"`
	Action        string `json:"action"`
	TargetType    string `json:"target_type"`
	BusinessID    string `json:"business_id"`
	PointsGranted int    `json:"points_granted"`
	NewBalance    int    `json:"new_balance"`
}

type RewardRedemption struct {
	RewardID    string `json:"reward_id"`
	PointsSpent int    `json:"points_spent"`
	EntryID     string `json:"entry_id"`
	NewBalance  *int   `json:"new_balance,omitempty"`
}

// API is the set of scan and reward operations a presentation layer calls.
type API interface {
	Resolve(ctx context.Context, code string) (*Resolution, error)
	Claim(ctx context.Context, code string) (*Outcome, error)
	Visit(ctx context.Context, code string) (*Outcome, error)
	Favorite(ctx context.Context, code string) (*Outcome, error)
	RedeemReward(ctx context.Context, rewardID string) (*RewardRedemption, error)
}

// Client calls the HTTP API. Every failure is returned as *apperr.Error so
// callers branch on Kind.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient replaces the default client, e.g. for tests or custom transports.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) Resolve(ctx context.Context, code string) (*Resolution, error) {
	var res Resolution
	if err := c.post(ctx, "/api/scan/resolve", map[string]string{"code": code}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Claim(ctx context.Context, code string) (*Outcome, error) {
	return c.scan(ctx, "claim", code)
}

func (c *Client) Visit(ctx context.Context, code string) (*Outcome, error) {
	return c.scan(ctx, "visit", code)
}

func (c *Client) Favorite(ctx context.Context, code string) (*Outcome, error) {
	return c.scan(ctx, "favorite", code)
}

func (c *Client) RedeemReward(ctx context.Context, rewardID string) (*RewardRedemption, error) {
	var out RewardRedemption
	if err := c.post(ctx, "/api/rewards/redeem", map[string]string{"rewardId": rewardID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) scan(ctx context.Context, action, code string) (*Outcome, error) {
	var out Outcome
	if err := c.post(ctx, "/api/scan/"+action, map[string]string{"code": code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperr.InvalidRequest(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apperr.InvalidRequest(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the outcome of a write is unknown; retrying is safe because actions are idempotent
		return apperr.Transient("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Transient("failed to decode response", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
	kind := apperr.FromStatus(resp.StatusCode)
	message := fmt.Sprintf("unexpected status %d", resp.StatusCode)
	if json.Unmarshal(raw, &body) == nil {
		if k, ok := apperr.ParseKind(body.Kind); ok {
			kind = k
		}
		if body.Error != "" {
			message = body.Error
		}
	}
	return apperr.New(kind, message)
}
