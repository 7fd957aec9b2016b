// Package payout talks to the custodial payout gateway that actually moves
// funds out of the pool. The pool treats it as an opaque external transfer:
// either the gateway confirms the payout or the withdrawal is rolled back.
package payout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Client issues payout instructions over HTTP.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates a payout client with optional proxy support.
func NewClient(endpoint, proxyURL string) *Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// Transfer instructs the gateway to move amount units to the recipient.
func (c *Client) Transfer(to common.Address, amount *big.Int) error {
	payload := map[string]string{
		"to":     to.Hex(),
		"amount": amount.String(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payout: %w", err)
	}
	resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send payout: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("payout gateway error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
