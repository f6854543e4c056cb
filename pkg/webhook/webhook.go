// Package webhook fires the revocation signal: a single JSON POST to
// an externally configured endpoint once a grant's duration has
// elapsed. Delivery is best effort with no retry contract.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// RevocationPayload is the body of the revocation signal.
type RevocationPayload struct {
	UserEmail       string                 `json:"user_email"`
	AccessType      string                 `json:"access_type"`
	PolicyDetails   map[string]interface{} `json:"policy_details"`
	DurationSeconds int                    `json:"duration_seconds"`
	AccountID       string                 `json:"account_id"`
	PermissionSet   string                 `json:"permission_set,omitempty"`
	Buckets         []string               `json:"buckets,omitempty"`
}

type Dispatcher struct {
	URL    string
	Client *http.Client
}

func NewDispatcher(url string) *Dispatcher {
	return &Dispatcher{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// SendRevocation posts the payload. Any non-2xx response is an error.
func (d *Dispatcher) SendRevocation(ctx context.Context, payload RevocationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshalling revocation payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building revocation request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := d.Client.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending revocation webhook")
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("revocation webhook returned status %d", res.StatusCode)
	}
	return nil
}
