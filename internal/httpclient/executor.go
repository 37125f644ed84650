package httpclient

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/unkn0wn-root/odatacomplete/internal/errdef"
	"github.com/unkn0wn-root/odatacomplete/internal/tlsconfig"
)

const (
	defaultUserAgent = "odatacomplete"
	maxBodyBytes     = 8 << 20
)

type Options struct {
	Timeout   time.Duration
	ProxyURL  string
	UserAgent string
	TLS       tlsconfig.Files
	// BaseDir anchors relative certificate paths.
	BaseDir string
}

func (o Options) equal(other Options) bool {
	return o.Timeout == other.Timeout &&
		o.ProxyURL == other.ProxyURL &&
		o.UserAgent == other.UserAgent &&
		o.BaseDir == other.BaseDir &&
		o.TLS.Equal(other.TLS)
}

type Client struct {
	mu     sync.Mutex
	opts   Options
	client *http.Client
}

func NewClient() *Client {
	return &Client{}
}

type Response struct {
	Status       string
	StatusCode   int
	Proto        string
	Headers      http.Header
	Body         []byte
	Duration     time.Duration
	EffectiveURL string
}

// Success reports whether the status code is in the 2xx range.
func (r *Response) Success() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a single GET and reads the whole body. A non-2xx status is
// returned alongside the response as a CodeHTTP error. Failures caused by ctx
// are reported as CodeCanceled.
func (c *Client) Get(ctx context.Context, rawURL string, opts Options) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeHTTP, err, "build request")
	}
	httpReq.Header.Set("Accept", "application/json")
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	httpReq.Header.Set("User-Agent", ua)

	client, err := c.httpClient(opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		return &Response{Duration: duration}, errdef.WrapContext(ctx, errdef.CodeHTTP, err, "perform request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errdef.WrapContext(ctx, errdef.CodeHTTP, err, "read response body")
	}

	response := &Response{
		Status:       resp.Status,
		StatusCode:   resp.StatusCode,
		Proto:        resp.Proto,
		Headers:      resp.Header.Clone(),
		Body:         body,
		Duration:     time.Since(start),
		EffectiveURL: resp.Request.URL.String(),
	}
	if !response.Success() {
		return response, errdef.New(errdef.CodeHTTP, "unexpected status %s", resp.Status)
	}
	return response, nil
}

func (c *Client) httpClient(opts Options) (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil && c.opts.equal(opts) {
		return c.client, nil
	}
	client, err := buildHTTPClient(opts)
	if err != nil {
		return nil, err
	}
	if c.client != nil {
		c.client.CloseIdleConnections()
	}
	c.client = client
	c.opts = opts
	return client, nil
}

func buildHTTPClient(opts Options) (*http.Client, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}

	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, errdef.Wrap(errdef.CodeHTTP, err, "parse proxy url")
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	tlsConfig, err := tlsconfig.Build(opts.TLS, opts.BaseDir)
	if err != nil {
		return nil, err
	}
	if tlsConfig != nil {
		transport.TLSClientConfig = tlsConfig
	}

	client := &http.Client{Transport: transport}
	if opts.Timeout > 0 {
		client.Timeout = opts.Timeout
	}
	return client, nil
}
