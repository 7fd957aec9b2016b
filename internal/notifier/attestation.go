package notifier

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// AttestationClient posts attestation records to the external attestation
// service. The call is synchronous and opaque: the service either accepts
// the record or the whole submission fails. Retry is the caller's decision.
type AttestationClient struct {
	mu       sync.RWMutex
	endpoint string
	client   *http.Client
}

// NewAttestationClient creates a client with optional proxy support.
// The endpoint may be empty at startup and set later via SetEndpoint.
func NewAttestationClient(endpoint, proxyURL string) *AttestationClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &AttestationClient{
		endpoint: endpoint,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// SetEndpoint replaces the attestation service endpoint for subsequent calls.
func (a *AttestationClient) SetEndpoint(endpoint string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.endpoint = endpoint
}

// Endpoint returns the currently configured endpoint.
func (a *AttestationClient) Endpoint() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.endpoint
}

// Attest delivers one serialized attestation record for the given target.
func (a *AttestationClient) Attest(target string, payload []byte) error {
	endpoint := a.Endpoint()
	if endpoint == "" {
		return fmt.Errorf("attestation endpoint not configured")
	}
	resp, err := a.client.Post(endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("attest %s: %w", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("attestation service error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
