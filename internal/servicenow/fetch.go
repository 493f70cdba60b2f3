package servicenow

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Classified fetch failures. Callers treat every one of them as "zero
// incidents"; the distinct values exist so the log line tells the operator
// whether the instance, the credentials, or the payload drifted.
var (
	ErrTimeout    = errors.New("request to ServiceNow timed out")
	ErrConnection = errors.New("failed to connect to ServiceNow - check your SNOW_INSTANCE URL")
	ErrBadJSON    = errors.New("invalid JSON response from ServiceNow")
)

// HTTPError reports a non-success status from the instance.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Sprintf("HTTP error from ServiceNow (status %d): authentication failed - check your credentials", e.StatusCode)
	case http.StatusNotFound:
		return fmt.Sprintf("HTTP error from ServiceNow (status %d): API endpoint not found - check the instance API path", e.StatusCode)
	default:
		return fmt.Sprintf("HTTP error from ServiceNow (status %d)", e.StatusCode)
	}
}

// FetchHighPriority retrieves and normalizes the current high-priority
// incidents. Transport failures come back as classified errors; payload
// shape problems are recovered inside Normalize and yield an empty slice.
func (c *Client) FetchHighPriority() ([]Incident, error) {
	url := strings.TrimRight(c.instance, "/") + highPriorityPath
	c.logger.Info("fetching high-priority incidents from ServiceNow", zap.String("url", url))

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode}
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadJSON, err)
	}

	incidents := c.Normalize(raw)
	c.logger.Info("fetched incidents", zap.Int("count", len(incidents)))
	return incidents, nil
}
