package learnsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/edumentor/learnconnect/pkg/idx"
)

// doJSON performs one API call: marshals reqBody (when non-nil), attaches the
// bearer token for authenticated calls, executes, and either decodes the
// response into out or returns a normalized *APIError.
//
// When RetryUnauthorized is enabled and the first attempt comes back
// Unauthorized, the Refresher runs once and the request is retried exactly
// once. The request body is re-marshaled per attempt so retries never replay
// a drained reader.
func (c *Client) doJSON(
	ctx context.Context,
	method, path string,
	query url.Values,
	reqBody, out any,
	expectStatus int,
	authed bool,
) error {
	err := c.attempt(ctx, method, path, query, reqBody, out, expectStatus, authed)
	if err == nil {
		return nil
	}

	if authed && c.RetryUnauthorized && c.Refresher != nil && IsKind(err, KindUnauthorized) {
		if refreshErr := c.Refresher.Refresh(ctx); refreshErr != nil {
			return err // surface the original Unauthorized, not the refresh failure
		}
		return c.attempt(ctx, method, path, query, reqBody, out, expectStatus, authed)
	}

	return err
}

func (c *Client) attempt(
	ctx context.Context,
	method, path string,
	query url.Values,
	reqBody, out any,
	expectStatus int,
	authed bool,
) error {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return networkError(err)
		}
	}

	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("learnsdk: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	target := c.url(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("learnsdk: create request: %w", err)
	}

	reqID := idx.New().String()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if token := c.accessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger().Debug("api request failed", "method", method, "path", path, "req_id", reqID, "err", err)
		return networkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}

	if resp.StatusCode != expectStatus {
		apiErr := normalizeErrorResponse(resp.StatusCode, respBody)
		c.logger().Debug("api request rejected",
			"method", method, "path", path, "req_id", reqID,
			"status", resp.StatusCode, "kind", string(apiErr.Kind))
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &APIError{
				Kind:       KindUnknown,
				Message:    fmt.Sprintf("malformed response body: %v", err),
				StatusCode: resp.StatusCode,
			}
		}
	}

	return nil
}

// accessToken reads the current token from the provider, if any.
func (c *Client) accessToken() string {
	if c.Tokens == nil {
		return ""
	}
	return c.Tokens.AccessToken()
}
