// Package cache implements the binary-cache HTTP protocol client and the
// on-disk narinfo cache.
package cache

import (
	"context"
	"io"
	"net/http"
	"strings"

	"go.trai.ch/zerr"
)

const (
	narinfoContentType = "text/x-nix-narinfo"
	narContentType     = "application/x-nix-nar"
)

// Client speaks the binary-cache wire protocol described in spec §6.
type Client struct {
	BaseURL   string
	AuthToken string
	HTTP      *http.Client
}

// NewClient builds a Client. If httpClient is nil, http.DefaultClient is used.
func NewClient(baseURL, authToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{BaseURL: strings.TrimSuffix(baseURL, "/"), AuthToken: authToken, HTTP: httpClient}
}

// NixCacheInfo fetches "<cache_url>/nix-cache-info" and returns its StoreDir field.
func (c *Client) NixCacheInfo(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/nix-cache-info", "text/plain")
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", zerr.Wrap(err, "reading nix-cache-info body")
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if ok && key == "StoreDir" {
			return strings.TrimSpace(value), nil
		}
	}

	return "", zerr.New("nix-cache-info missing StoreDir")
}

// FetchNarinfo GETs "<cache_url>/<hash>.narinfo" and returns the raw response body.
func (c *Client) FetchNarinfo(ctx context.Context, hash string) ([]byte, error) {
	body, err := c.get(ctx, "/"+hash+".narinfo", narinfoContentType)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "reading narinfo body"), "hash", hash)
	}
	return data, nil
}

// FetchNar GETs "<cache_url>/<url>" and returns the (caller-closed) response
// body stream, per spec §4.4 step 4.
func (c *Client) FetchNar(ctx context.Context, url string) (io.ReadCloser, error) {
	return c.get(ctx, "/"+strings.TrimPrefix(url, "/"), narContentType)
}

func (c *Client) get(ctx context.Context, path, accept string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, zerr.Wrap(err, "building cache request")
	}
	req.Header.Set("Accept", accept)
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "cache request failed"), "path", path)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		err := zerr.With(zerr.New("cache returned non-200 status"), "path", path)
		return nil, zerr.With(err, "status_code", resp.StatusCode)
	}

	return resp.Body, nil
}
