package httpclient

import (
	"io"
	"net/http"
	"time"
)

// Client is the outbound HTTP surface used by webhook triggers; tests substitute a fake
type Client interface {
	Post(url, contentType string, body io.Reader) (*http.Response, error)
	Get(url string) (*http.Response, error)
	Do(req *http.Request) (*http.Response, error)
}

// StandardHTTPClient wraps http.Client with a timeout
type StandardHTTPClient struct {
	client *http.Client
}

// NewStandardClient creates a client with a 10s timeout
func NewStandardClient() Client {
	return NewClientWithTimeout(10 * time.Second)
}

// NewClientWithTimeout creates a client with the given timeout
func NewClientWithTimeout(timeout time.Duration) Client {
	return &StandardHTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

func (c *StandardHTTPClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	return c.client.Post(url, contentType, body)
}

func (c *StandardHTTPClient) Get(url string) (*http.Response, error) {
	return c.client.Get(url)
}

func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}
