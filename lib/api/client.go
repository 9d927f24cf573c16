// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// maxResponseBytes caps how much of a response body is read. The gateway
// returns bounded lists; anything larger indicates a misbehaving server.
const maxResponseBytes = 8 << 20

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the gateway's base URL (e.g., "http://localhost:8000").
	BaseURL string
	// APIKey authenticates every request via the X-API-Key header.
	APIKey string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client is an authenticated gateway API client. It is safe to create
// one per session and share it across the dashboard's components.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a gateway client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("api: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// VerifyIdentity confirms the client's credential and returns the
// server-confirmed profile.
func (c *Client) VerifyIdentity(ctx context.Context) (*User, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil)
	if err != nil {
		return nil, fmt.Errorf("api: identity verification failed: %w", err)
	}

	var response struct {
		User User `json:"user"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("api: failed to parse verify response: %w", err)
	}
	return &response.User, nil
}

// SubmitCommand sends a command through the gate. The result's status
// reflects the rule and risk pipeline's verdict; CreditsRemaining, when
// present, is the server-confirmed balance after any deduction.
func (c *Client) SubmitCommand(ctx context.Context, command string) (*SubmitResult, error) {
	request := map[string]string{"command": command}
	body, err := c.do(ctx, http.MethodPost, "/api/commands", request)
	if err != nil {
		return nil, fmt.Errorf("api: command submission failed: %w", err)
	}

	var result SubmitResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("api: failed to parse submit response: %w", err)
	}
	return &result, nil
}

// ListCommands returns the caller's own command history, newest first.
func (c *Client) ListCommands(ctx context.Context) ([]CommandRecord, error) {
	var records []CommandRecord
	if err := c.getJSON(ctx, "/api/commands", &records); err != nil {
		return nil, fmt.Errorf("api: listing commands failed: %w", err)
	}
	return records, nil
}

// ListRules returns all gating rules in match order. Admin only.
func (c *Client) ListRules(ctx context.Context) ([]Rule, error) {
	var rules []Rule
	if err := c.getJSON(ctx, "/api/rules", &rules); err != nil {
		return nil, fmt.Errorf("api: listing rules failed: %w", err)
	}
	return rules, nil
}

// CreateRule adds a gating rule. Admin only.
func (c *Client) CreateRule(ctx context.Context, pattern, action string) (*Rule, error) {
	request := map[string]string{"pattern": pattern, "action": action}
	body, err := c.do(ctx, http.MethodPost, "/api/rules", request)
	if err != nil {
		return nil, fmt.Errorf("api: rule creation failed: %w", err)
	}

	var rule Rule
	if err := json.Unmarshal(body, &rule); err != nil {
		return nil, fmt.Errorf("api: failed to parse created rule: %w", err)
	}
	return &rule, nil
}

// ValidatePattern asks the server whether a rule pattern is
// syntactically valid. Validity gates rule creation only — conflict
// checking works on any non-empty pattern.
func (c *Client) ValidatePattern(ctx context.Context, pattern string) (*ValidationResult, error) {
	request := map[string]string{"pattern": pattern}
	body, err := c.do(ctx, http.MethodPost, "/api/rules/validate", request)
	if err != nil {
		return nil, fmt.Errorf("api: pattern validation failed: %w", err)
	}

	var result ValidationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("api: failed to parse validation response: %w", err)
	}
	return &result, nil
}

// CheckConflicts runs server-side overlap analysis of a proposed rule
// against the existing rule set.
func (c *Client) CheckConflicts(ctx context.Context, pattern, action string) (*ConflictResult, error) {
	request := map[string]string{"pattern": pattern, "action": action}
	body, err := c.do(ctx, http.MethodPost, "/api/rules/check-conflicts", request)
	if err != nil {
		return nil, fmt.Errorf("api: conflict check failed: %w", err)
	}

	var result ConflictResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("api: failed to parse conflict response: %w", err)
	}
	return &result, nil
}

// ListPendingApprovals returns commands awaiting multi-admin sign-off.
// Admin only.
func (c *Client) ListPendingApprovals(ctx context.Context) ([]PendingApproval, error) {
	var approvals []PendingApproval
	if err := c.getJSON(ctx, "/api/pending-approvals", &approvals); err != nil {
		return nil, fmt.Errorf("api: listing pending approvals failed: %w", err)
	}
	return approvals, nil
}

// ResolveApproval records an approve or reject vote on a pending
// command. The reason requirement for rejections is enforced by callers
// before any network traffic; the server enforces it again.
func (c *Client) ResolveApproval(ctx context.Context, commandID int, approved bool, reason string) (*ResolveResult, error) {
	request := map[string]any{"approved": approved, "reason": reason}
	path := fmt.Sprintf("/api/commands/%d/approve", commandID)
	body, err := c.do(ctx, http.MethodPost, path, request)
	if err != nil {
		return nil, fmt.Errorf("api: approval resolution failed: %w", err)
	}

	var result ResolveResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("api: failed to parse resolve response: %w", err)
	}
	return &result, nil
}

// ListAuditLogs returns the audit trail, newest first. Admin only.
func (c *Client) ListAuditLogs(ctx context.Context) ([]AuditEntry, error) {
	var entries []AuditEntry
	if err := c.getJSON(ctx, "/api/audit-logs", &entries); err != nil {
		return nil, fmt.Errorf("api: listing audit logs failed: %w", err)
	}
	return entries, nil
}

// FetchAnalytics returns the daily analytics snapshot. Admin only.
func (c *Client) FetchAnalytics(ctx context.Context) (*Analytics, error) {
	var analytics Analytics
	if err := c.getJSON(ctx, "/api/analytics", &analytics); err != nil {
		return nil, fmt.Errorf("api: fetching analytics failed: %w", err)
	}
	return &analytics, nil
}

// CreateUser provisions a new user. The returned API key is shown once
// and never retrievable again. Admin only.
func (c *Client) CreateUser(ctx context.Context, name, role string, credits int) (*CreatedUser, error) {
	request := map[string]any{"name": name, "role": role, "credits": credits}
	body, err := c.do(ctx, http.MethodPost, "/api/users", request)
	if err != nil {
		return nil, fmt.Errorf("api: user creation failed: %w", err)
	}

	var created CreatedUser
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("api: failed to parse created user: %w", err)
	}
	return &created, nil
}

// UpdateUserCredits sets a user's credit balance to an absolute value.
// Admin only.
func (c *Client) UpdateUserCredits(ctx context.Context, userID, credits int) error {
	request := map[string]int{"credits": credits}
	path := fmt.Sprintf("/api/users/%d/credits", userID)
	if _, err := c.do(ctx, http.MethodPut, path, request); err != nil {
		return fmt.Errorf("api: credit update failed: %w", err)
	}
	return nil
}

// getJSON performs a GET request and unmarshals the response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing %s response: %w", path, err)
	}
	return nil
}

// do performs an HTTP request against the gateway and returns the
// response body. Error responses (non-2xx) are decoded into *Error;
// a non-JSON error body fails loud with the raw payload.
func (c *Client) do(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("X-API-Key", c.apiKey)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	var apiErr Error
	if jsonErr := json.Unmarshal(responseBody, &apiErr); jsonErr != nil || apiErr.Message == "" {
		return nil, fmt.Errorf("unexpected %d response from %s %s: %s",
			response.StatusCode, method, path, string(responseBody))
	}
	apiErr.StatusCode = response.StatusCode

	return nil, &apiErr
}
