package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// QRStatus is the gateway's pairing state.
type QRStatus struct {
	Authenticated bool   `json:"authenticated"`
	QR            string `json:"qr,omitempty"` // data URL of the pairing code
	Message       string `json:"message,omitempty"`
}

// QR fetches the pairing code. A gateway that is still waiting for a code
// answers 202 with no QR.
func (c *Client) QR(ctx context.Context) (QRStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/qr", nil)
	if err != nil {
		return QRStatus{}, err
	}
	resp, err := c.probe.Do(req)
	if err != nil {
		return QRStatus{}, fmt.Errorf("fetch bridge qr: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return QRStatus{}, fmt.Errorf("fetch bridge qr: status %d", resp.StatusCode)
	}
	var status QRStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return QRStatus{}, fmt.Errorf("decode bridge qr: %w", err)
	}
	return status, nil
}
