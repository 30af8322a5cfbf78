package wyvern

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const ordersEndpoint = "/wyvern/v1/orders"

// APIClient handles HTTP requests to the marketplace order book API
type APIClient struct {
	host   string
	apiKey string
	client *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(host, apiKey string) *APIClient {
	return &APIClient{
		host:   strings.TrimRight(host, "/"),
		apiKey: apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// doRequest performs an HTTP GET request
func (c *APIClient) doRequest(ctx context.Context, endpoint string, query url.Values) (*http.Response, error) {
	u := fmt.Sprintf("%s%s", c.host, endpoint)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

// decodeJSONResponse reads the response body, checks HTTP status, and decodes
// JSON with integers kept as json.Number
func (c *APIClient) decodeJSONResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		bodyStr := string(bodyBytes)
		if bodyStr == "" {
			bodyStr = resp.Status
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, bodyStr)
	}

	dec := json.NewDecoder(bytes.NewReader(bodyBytes))
	dec.UseNumber()
	if err := dec.Decode(result); err != nil {
		bodyStr := string(bodyBytes)
		if len(bodyStr) > 200 {
			bodyStr = bodyStr[:200] + "..."
		}
		return fmt.Errorf("failed to decode JSON response: %w (body: %s)", err, bodyStr)
	}

	return nil
}

// GetOrders fetches orders for an asset from the order book
func (c *APIClient) GetOrders(ctx context.Context, query OrderQuery) ([]map[string]interface{}, error) {
	if IsZeroAddress(query.TokenAddress) {
		return nil, &InvalidParamError{Message: "token address is required"}
	}
	if query.TokenID == nil {
		return nil, &InvalidParamError{Message: "token id is required"}
	}

	params := url.Values{}
	params.Set("asset_contract_address", strings.ToLower(query.TokenAddress.Hex()))
	params.Set("token_id", query.TokenID.String())
	params.Set("side", strconv.Itoa(int(query.Side)))
	params.Set("bundled", "false")
	params.Set("include_bundled", "false")
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}

	resp, err := c.doRequest(ctx, ordersEndpoint, params)
	if err != nil {
		return nil, err
	}

	var result OrdersResponse
	if err := c.decodeJSONResponse(resp, &result); err != nil {
		return nil, err
	}
	return result.Orders, nil
}
