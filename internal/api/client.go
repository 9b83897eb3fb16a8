// Package api implements the HTTP client for the VitaLink backend. It
// builds requests from the shipped contract, applies session auth, and
// maps backend responses onto the client's error kinds.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vitalink/companion/internal/config"
	"github.com/vitalink/companion/internal/contract"
	"github.com/vitalink/companion/internal/logger"
	"github.com/vitalink/companion/internal/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Envelope is the backend's response wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// errorBody is the FastAPI error shape carried by 4xx/5xx responses.
type errorBody struct {
	Detail string `json:"detail"`
}

// Identity is the verified user identity returned by the token exchange.
type Identity struct {
	UserID string `json:"user_id"`
}

// Client executes backend calls for the companion client.
type Client struct {
	client   *http.Client
	baseURL  string
	contract *contract.Contract
	authMgr  AuthManager
}

type ClientParams struct {
	fx.In

	Config   *config.Config
	Contract *contract.Contract
	Auth     AuthManager
}

// NewClient creates a new backend Client
func NewClient(params ClientParams) *Client {
	return &Client{
		client: &http.Client{
			Timeout: params.Config.Backend.RequestTimeout(),
		},
		baseURL:  params.Config.Backend.BaseURL,
		contract: params.Contract,
		authMgr:  params.Auth,
	}
}

// SetTimeout sets the timeout for the HTTP client
func (c *Client) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// VerifyToken exchanges a candidate token for the user identity. A
// rejected token is reported as ErrUnauthorized; a transport failure as
// ErrNetwork, so the caller does not discard a possibly valid token.
func (c *Client) VerifyToken(ctx context.Context, token string) (Identity, error) {
	env, err := c.call(ctx, contract.OpVerifyToken, map[string]string{"token": token})
	if err != nil {
		return Identity{}, err
	}
	if !env.Success {
		return Identity{}, fmt.Errorf("verify token: %w: %s", ErrUnauthorized, env.Message)
	}
	var id Identity
	if err := json.Unmarshal(env.Data, &id); err != nil || id.UserID == "" {
		return Identity{}, fmt.Errorf("verify token: %w: malformed identity payload", ErrServer)
	}
	return id, nil
}

// LoadUserData fetches the full user record for a verified identity.
func (c *Client) LoadUserData(ctx context.Context, userID string) (*model.UserRecord, error) {
	env, err := c.call(ctx, contract.OpLoadUserData, map[string]string{"user_id": userID})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("load user data: %w: %s", ErrServer, env.Message)
	}
	var record model.UserRecord
	if err := json.Unmarshal(env.Data, &record); err != nil {
		return nil, fmt.Errorf("load user data: %w: malformed record payload", ErrServer)
	}
	if record.UserID == "" {
		record.UserID = userID
	}
	return &record, nil
}

// UpdateProfile submits new profile fields.
func (c *Client) UpdateProfile(ctx context.Context, birthDate, gender string) error {
	env, err := c.call(ctx, contract.OpUpdateProfile, map[string]string{
		"birth_date": birthDate,
		"gender":     gender,
	})
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("update profile: %w: %s", ErrServer, env.Message)
	}
	return nil
}

// UpdateHealthMetrics submits new height and weight values.
func (c *Client) UpdateHealthMetrics(ctx context.Context, userID string, height, weight float64) error {
	env, err := c.call(ctx, contract.OpUpdateHealthMetrics, map[string]interface{}{
		"user_id": userID,
		"height":  height,
		"weight":  weight,
	})
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("update health metrics: %w: %s", ErrServer, env.Message)
	}
	return nil
}

// DeleteAccount issues the irreversible account deletion call.
func (c *Client) DeleteAccount(ctx context.Context) error {
	env, err := c.call(ctx, contract.OpDeleteAccount, nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("delete account: %w: %s", ErrServer, env.Message)
	}
	return nil
}

// call builds, authenticates and executes the request for one contract
// operation, returning the decoded response envelope.
func (c *Client) call(ctx context.Context, operationID string, body interface{}) (*Envelope, error) {
	route, ok := c.contract.Route(operationID)
	if !ok {
		return nil, fmt.Errorf("unknown contract operation: %s", operationID)
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, route.Method, c.baseURL+route.Path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if route.Authenticated {
		if err := c.authMgr.ApplyAuth(req); err != nil {
			return nil, fmt.Errorf("failed to apply authentication: %w", err)
		}
	}

	logger.Debug("request route",
		zap.String("operation", operationID),
		zap.String("method", route.Method),
		zap.String("path", route.Path),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Error("failed to execute request", zap.String("operation", operationID), zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %v", operationID, ErrNetwork, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("failed to close response body", zap.Error(closeErr))
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", operationID, ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(operationID, resp.StatusCode, bodyBytes)
	}

	var env Envelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return nil, fmt.Errorf("%s: %w: malformed response", operationID, ErrServer)
	}
	return &env, nil
}

// statusError maps a non-200 status onto the error taxonomy, carrying
// the backend detail message when present.
func (c *Client) statusError(operationID string, status int, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	detail := eb.Detail
	if detail == "" {
		detail = http.StatusText(status)
	}

	var kind error
	switch {
	case status == http.StatusUnauthorized:
		kind = ErrUnauthorized
	case status == http.StatusNotFound:
		kind = ErrNotFound
	default:
		kind = ErrServer
	}
	return fmt.Errorf("%s: %w: %s", operationID, kind, detail)
}

// Module provides the api client dependencies
var Module = fx.Module("api",
	fx.Provide(
		NewClient,
		fx.Annotate(
			NewBearerAuthManager,
			fx.As(new(AuthManager)),
		),
	),
)
