// Package netfetch downloads the proxy's collaborator-supplied files
// and resolves the host's public address. All calls are plain HTTP
// GETs against fixed URLs with a small transient-error retry.
package netfetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Erfan-XRay/MTPulse/internal/util"
)

// ErrEmptyDownload is returned when a fetched file has no content.
// An empty proxy-secret or proxy config produces a proxy that starts
// and then fails opaquely, so activation must not proceed past it.
var ErrEmptyDownload = errors.New("downloaded file is empty")

// Client fetches auxiliary proxy files and the public address.
type Client struct {
	HTTP      *http.Client
	SecretURL string
	ConfigURL string
	IPURL     string

	// CachePath stores the first successful address lookup so status
	// renders don't hit the network every time. Removed on uninstall.
	CachePath string

	Retry util.RetryConfig
}

// New returns a Client with a bounded request timeout.
func New(secretURL, configURL, ipURL, cachePath string) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: 15 * time.Second},
		SecretURL: secretURL,
		ConfigURL: configURL,
		IPURL:     ipURL,
		CachePath: cachePath,
		Retry:     util.DefaultRetryConfig(),
	}
}

// FetchAux downloads the proxy secret and multi-datacenter config
// blobs into place. Both writes are atomic; a failed or empty
// download leaves any previous copy intact.
func (c *Client) FetchAux(ctx context.Context, secretPath, configPath string) error {
	if err := c.download(ctx, c.SecretURL, secretPath); err != nil {
		return fmt.Errorf("fetching proxy secret: %w", err)
	}
	if err := c.download(ctx, c.ConfigURL, configPath); err != nil {
		return fmt.Errorf("fetching proxy config: %w", err)
	}
	return nil
}

// ipCache is the persisted result of an address lookup.
type ipCache struct {
	Address   string    `json:"address"`
	FetchedAt time.Time `json:"fetched_at"`
}

// PublicIP returns the host's public address, preferring the cache.
// The first successful lookup is cached until uninstall removes it.
func (c *Client) PublicIP(ctx context.Context) (string, error) {
	if data, err := os.ReadFile(c.CachePath); err == nil {
		var cached ipCache
		if json.Unmarshal(data, &cached) == nil && net.ParseIP(cached.Address) != nil {
			return cached.Address, nil
		}
		// Unparseable cache: fall through to a fresh lookup.
	}

	body, err := c.get(ctx, c.IPURL)
	if err != nil {
		return "", fmt.Errorf("public address lookup: %w", err)
	}
	addr := strings.TrimSpace(string(body))
	if net.ParseIP(addr) == nil {
		return "", fmt.Errorf("public address lookup returned %q, not an IP", addr)
	}

	// Cache failures are not worth failing the lookup over.
	_ = util.AtomicWriteJSON(c.CachePath, ipCache{Address: addr, FetchedAt: time.Now().UTC()})

	return addr, nil
}

func (c *Client) download(ctx context.Context, url, dest string) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyDownload, url)
	}
	return util.AtomicWriteFile(dest, body, 0644)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := util.Retry(ctx, c.Retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := c.HTTP.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
