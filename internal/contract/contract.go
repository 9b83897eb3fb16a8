// Package contract loads the backend API description shipped with the
// binary and exposes it as route configurations for the HTTP client.
package contract

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/vitalink/companion/internal/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:embed openapi.yaml
var contractSpec []byte

// Operation IDs of the endpoints the client consumes. Load fails if the
// embedded contract does not define all of them.
const (
	OpVerifyToken         = "verifyToken"
	OpLoadUserData        = "loadUserData"
	OpUpdateProfile       = "updateProfile"
	OpUpdateHealthMetrics = "updateHealthMetrics"
	OpDeleteAccount       = "deleteAccount"
)

var requiredOps = []string{
	OpVerifyToken,
	OpLoadUserData,
	OpUpdateProfile,
	OpUpdateHealthMetrics,
	OpDeleteAccount,
}

// Route is one backend endpoint as declared by the contract.
type Route struct {
	OperationID   string
	Method        string
	Path          string
	Authenticated bool
}

// Contract holds the parsed backend API contract.
type Contract struct {
	routes map[string]Route
}

// Load parses the embedded OpenAPI document into a Contract.
func Load() (*Contract, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(contractSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse backend contract: %w", err)
	}
	if doc == nil || doc.Paths == nil {
		return nil, fmt.Errorf("failed to parse backend contract: document is empty")
	}

	c := &Contract{routes: make(map[string]Route)}
	for path, pathItem := range doc.Paths.Map() {
		for method, op := range pathItem.Operations() {
			if op.OperationID == "" {
				return nil, fmt.Errorf("contract operation %s %s has no operationId", method, path)
			}
			c.routes[op.OperationID] = Route{
				OperationID:   op.OperationID,
				Method:        method,
				Path:          path,
				Authenticated: op.Security != nil && len(*op.Security) > 0,
			}
		}
	}

	for _, id := range requiredOps {
		if _, ok := c.routes[id]; !ok {
			return nil, fmt.Errorf("backend contract is missing operation %q", id)
		}
	}

	logger.Debug("Loaded backend contract", zap.Int("routes", len(c.routes)))
	return c, nil
}

// Route returns the route for an operation ID.
func (c *Contract) Route(operationID string) (Route, bool) {
	r, ok := c.routes[operationID]
	return r, ok
}

// Routes returns all declared routes.
func (c *Contract) Routes() []Route {
	out := make([]Route, 0, len(c.routes))
	for _, r := range c.routes {
		out = append(out, r)
	}
	return out
}

// Module provides the contract dependencies
var Module = fx.Module("contract",
	fx.Provide(
		Load,
	),
)
