package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	hzclient "github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// DefaultMaxRedirects bounds the redirect-follow budget per request.
const DefaultMaxRedirects = 3

// ErrTooManyRedirects marks redirect-budget exhaustion. It is always wrapped
// in a *TransportError.
var ErrTooManyRedirects = errors.New("too many redirects")

// TransportError reports that no usable response was obtained: either the
// connection could not be established or the redirect budget ran out. A
// non-2xx status is NOT a transport error; it comes back as a normal Outcome.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Request describes one outbound call. The zero value of NoRedirect means
// redirects are followed; MaxRedirects of 0 means DefaultMaxRedirects.
type Request struct {
	Method       string
	URL          string
	Headers      map[string]string
	Body         []byte
	NoRedirect   bool
	MaxRedirects int
}

// Outcome is the terminal result of a call. Body holds the decoded JSON
// value, or the raw text when the payload is not valid JSON.
type Outcome struct {
	Status int
	Body   any
	Raw    []byte
}

// OK reports a 2xx status.
func (o Outcome) OK() bool { return o.Status >= 200 && o.Status < 300 }

// Client issues outbound HTTPS requests with bounded redirect following.
// The underlying hertz client never follows redirects on Do; the budgeted
// loop below owns that behavior so that 301/302 downgrade to GET while
// 307/308 preserve the original method and body.
type Client struct {
	hc *hzclient.Client
}

func New() (*Client, error) {
	hc, err := hzclient.NewClient(
		hzclient.WithDialTimeout(10 * time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("new hertz client: %w", err)
	}
	return &Client{hc: hc}, nil
}

// Do performs the request, transparently following up to MaxRedirects
// redirect responses. Every reachable status is a normal Outcome for the
// caller to inspect; only connection failure and budget exhaustion error.
func (c *Client) Do(ctx context.Context, r Request) (Outcome, error) {
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method == "" {
		method = consts.MethodGet
	}
	remaining := r.MaxRedirects
	if remaining <= 0 {
		remaining = DefaultMaxRedirects
	}

	target := r.URL
	body := r.Body
	downgraded := false

	for {
		status, respBody, location, err := c.roundTrip(ctx, method, target, r.Headers, body, downgraded)
		if err != nil {
			return Outcome{}, &TransportError{URL: target, Err: err}
		}

		if r.NoRedirect || location == "" || !isRedirect(status) {
			return Outcome{Status: status, Body: parseBody(respBody), Raw: respBody}, nil
		}

		if remaining == 0 {
			return Outcome{}, &TransportError{URL: target, Err: ErrTooManyRedirects}
		}
		remaining--

		next, resolveErr := resolveLocation(target, location)
		if resolveErr != nil {
			// Unresolvable Location header: surface the redirect as-is.
			return Outcome{Status: status, Body: parseBody(respBody), Raw: respBody}, nil
		}

		if status == consts.StatusMovedPermanently || status == consts.StatusFound {
			method = consts.MethodGet
			body = nil
			downgraded = true
		}
		target = next
	}
}

func (c *Client) roundTrip(ctx context.Context, method, target string, headers map[string]string, body []byte, downgraded bool) (int, []byte, string, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer protocol.ReleaseRequest(req)
	defer protocol.ReleaseResponse(resp)

	req.SetMethod(method)
	req.SetRequestURI(target)
	for k, v := range headers {
		if downgraded && strings.EqualFold(k, "Content-Type") {
			continue
		}
		req.Header.Set(k, v)
	}
	if len(body) > 0 {
		req.SetBody(body)
	}

	if err := c.hc.Do(ctx, req, resp); err != nil {
		return 0, nil, "", err
	}

	raw := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), raw, resp.Header.Get("Location"), nil
}

func isRedirect(status int) bool {
	switch status {
	case consts.StatusMovedPermanently, consts.StatusFound,
		consts.StatusTemporaryRedirect, consts.StatusPermanentRedirect:
		return true
	}
	return false
}

func resolveLocation(base, location string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	next, err := baseURL.Parse(location)
	if err != nil {
		return "", err
	}
	return next.String(), nil
}

// parseBody decodes JSON payloads; anything else is returned verbatim as
// text so a malformed upstream body never fails the call.
func parseBody(raw []byte) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return string(raw)
	}
	return v
}
