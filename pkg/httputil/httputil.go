package httputil

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"go.uber.org/ratelimit"
)

const defaultTimeout = 30 * time.Second

// Client is a thin wrapper around http.Client that throttles outgoing
// requests with a fixed per-second rate limit.
type Client struct {
	httpClient *http.Client
	limiter    ratelimit.Limiter
}

// NewClient returns a rate-limited HTTP client allowing up to
// requestsPerSecond calls per second.
func NewClient(requestsPerSecond int) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    ratelimit.New(requestsPerSecond),
	}
}

// NewHTTPRequest function builds and performs an http call.
// @param method <string>: http method
// @param url <string>: URL http to call
// @return <int>, <string>, error
func (c *Client) NewHTTPRequest(
	method, url, bodyString string, header map[string]string,
) (int, string, error) {
	c.limiter.Take()

	switch method {
	case "GET":
		return c.get(url, header)
	case "POST":
		return c.post(url, bodyString, header)
	default:
		return 0, "", fmt.Errorf("verb not supported %s", method)
	}
}

func (c *Client) get(url string, header map[string]string) (int, string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return 0, "", err
	}

	for key, value := range header {
		req.Header.Set(key, value)
	}

	return c.do(req)
}

func (c *Client) post(
	url, bodyString string, header map[string]string,
) (int, string, error) {
	body := strings.NewReader(bodyString)
	req, err := http.NewRequest("POST", url, body)
	if err != nil {
		return 0, "", err
	}

	for key, value := range header {
		req.Header.Set(key, value)
	}

	return c.do(req)
}

func (c *Client) do(req *http.Request) (int, string, error) {
	rs, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer rs.Body.Close()

	bodyBytes, err := ioutil.ReadAll(rs.Body)
	if err != nil {
		return 0, "", err
	}

	return rs.StatusCode, string(bodyBytes), nil
}
