package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GraphQLRequest is the Admin API request envelope.
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

// GraphQLClient executes Admin API GraphQL queries for a shop.
type GraphQLClient struct {
	HTTP       *http.Client
	APIVersion string
	// BaseURL overrides the per-shop https base (tests).
	BaseURL func(shop string) string
}

func NewGraphQLClient(apiVersion string, timeout time.Duration) *GraphQLClient {
	return &GraphQLClient{HTTP: newHTTPClient(timeout), APIVersion: apiVersion, BaseURL: BaseURL}
}

// Query posts the request authenticated with the shop's access token and
// decodes the data payload into out. GraphQL-level errors are returned as
// Go errors; partial data alongside errors is discarded.
func (c *GraphQLClient) Query(ctx context.Context, shop, accessToken string, gq GraphQLRequest, out any) error {
	body, err := json.Marshal(gq)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/admin/api/%s/graphql.json", c.BaseURL(shop), c.APIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("graphql status %d", resp.StatusCode)
	}
	var env graphQLEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("graphql decode: %w", err)
	}
	if len(env.Errors) > 0 {
		return fmt.Errorf("graphql error: %s", env.Errors[0].Message)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("graphql data decode: %w", err)
		}
	}
	return nil
}
