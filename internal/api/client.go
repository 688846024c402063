package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"codestats-proxy/internal/constants"
	"codestats-proxy/internal/domain"

	"github.com/valyala/fasthttp"
)

// Client is the fasthttp client shared by every platform fetcher.
type Client struct {
	client *fasthttp.Client
}

func NewClient() *Client {
	return &Client{
		client: &fasthttp.Client{
			MaxConnsPerHost:     constants.UpstreamMaxConnsPerHost,
			ReadTimeout:         constants.UpstreamReadTimeout,
			WriteTimeout:        constants.UpstreamWriteTimeout,
			MaxIdleConnDuration: constants.UpstreamMaxIdleConnDuration,
			MaxResponseBodySize: constants.UpstreamMaxResponseBodySize,
		},
	}
}

type request struct {
	method  string
	url     string
	headers map[string]string
	body    []byte
}

// do sends req and returns a copy of the body for any 2xx response.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.url)
	req.Header.SetMethod(r.method)
	req.Header.Set(fasthttp.HeaderUserAgent, constants.UpstreamUserAgent)
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if r.body != nil {
		req.SetBody(r.body)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.APIFetchTimeout)
	}
	if err := c.follow(req, resp, deadline); err != nil {
		return nil, err
	}

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamProtocol, code)
	}

	return append([]byte(nil), resp.Body()...), nil
}

// follow sends req and chases Location headers, every hop sharing the same
// deadline. A redirect without a Location is returned as-is.
func (c *Client) follow(req *fasthttp.Request, resp *fasthttp.Response, deadline time.Time) error {
	for hops := 0; ; hops++ {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return err
		}

		code := resp.StatusCode()
		location := resp.Header.Peek(fasthttp.HeaderLocation)
		if !fasthttp.StatusCodeIsRedirect(code) || len(location) == 0 {
			return nil
		}
		if hops >= constants.UpstreamMaxRedirects {
			return fmt.Errorf("%w: more than %d redirects", domain.ErrUpstreamProtocol, constants.UpstreamMaxRedirects)
		}

		req.URI().UpdateBytes(location)
		if code == fasthttp.StatusSeeOther ||
			(string(req.Header.Method()) == fasthttp.MethodPost && (code == fasthttp.StatusMovedPermanently || code == fasthttp.StatusFound)) {
			req.Header.SetMethod(fasthttp.MethodGet)
			req.Header.Del(fasthttp.HeaderContentType)
			req.ResetBody()
		}
	}
}

func getJSON[T any](ctx context.Context, c *Client, url string) (*T, error) {
	body, err := c.do(ctx, request{
		method:  fasthttp.MethodGet,
		url:     url,
		headers: map[string]string{fasthttp.HeaderAccept: "application/json"},
	})
	if err != nil {
		return nil, err
	}
	return decode[T](body)
}

func postJSON[T any](ctx context.Context, c *Client, url string, payload any, headers map[string]string) (*T, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	h := map[string]string{
		fasthttp.HeaderContentType: "application/json",
		fasthttp.HeaderAccept:      "*/*",
	}
	for k, v := range headers {
		h[k] = v
	}

	body, err := c.do(ctx, request{method: fasthttp.MethodPost, url: url, headers: h, body: raw})
	if err != nil {
		return nil, err
	}
	return decode[T](body)
}

func getText(ctx context.Context, c *Client, url string) (string, error) {
	body, err := c.do(ctx, request{
		method:  fasthttp.MethodGet,
		url:     url,
		headers: map[string]string{fasthttp.HeaderAccept: "text/html,application/json"},
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func decode[T any](body []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: malformed body: %v", domain.ErrUpstreamProtocol, err)
	}
	return &result, nil
}
