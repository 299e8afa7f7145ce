// Package fetch implements the Safe Fetcher (C3): host-side HTTP(S)
// requests hardened against server-side request forgery. Every connection
// is opened only to an address validated against the blocklist at the
// moment the socket is created, closing the DNS-rebinding TOCTOU window.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sandboxagent/sandboxagent/models"
)

// RedirectMetric records how many redirect hops a single fetch followed.
// prometheus.Histogram satisfies this directly via its own Observe method,
// so metrics.AgentMetrics.FetchRedirects can be passed straight through
// without this package importing metrics.
type RedirectMetric interface {
	Observe(v float64)
}

// Fetcher performs SSRF-hardened outbound HTTP(S) requests. It never
// retries on its own: one Fetch call opens at most 1+MaxRedirects
// connections.
type Fetcher struct {
	MaxBytes     int64
	Timeout      time.Duration
	MaxRedirects int
	logger       *zap.Logger
	redirects    RedirectMetric
}

// New builds a Fetcher.
func New(maxBytes int64, timeout time.Duration, maxRedirects int, logger *zap.Logger) *Fetcher {
	return &Fetcher{MaxBytes: maxBytes, Timeout: timeout, MaxRedirects: maxRedirects, logger: logger}
}

// WithRedirectMetric attaches a RedirectMetric sink, returning the fetcher
// for chaining at construction time.
func (f *Fetcher) WithRedirectMetric(rm RedirectMetric) *Fetcher {
	f.redirects = rm
	return f
}

// pinnedHost is the single mutable piece of state threaded between
// preflight validation and the transport's dial step: the hostname most
// recently validated and the specific address it must connect to.
type pinnedHost struct {
	mu   sync.Mutex
	host string
	ip   net.IP
}

func (p *pinnedHost) set(host string, ip net.IP) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.host = host
	p.ip = ip
}

func (p *pinnedHost) get(host string) (net.IP, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.host != host {
		return nil, false
	}
	return p.ip, true
}

// Fetch performs the request, validating the destination before the initial
// connection and before following every redirect.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, method string, headers map[string]string, body io.Reader) (*models.FetchResult, error) {
	pin := &pinnedHost{}

	parsed, err := f.preflightAndPin(ctx, rawURL, pin)
	if err != nil {
		return nil, err
	}

	dialer := &net.Dialer{}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, splitErr := net.SplitHostPort(addr)
			if splitErr != nil {
				return nil, splitErr
			}
			ip, ok := pin.get(host)
			if !ok {
				return nil, fmt.Errorf("fetch: no validated address pinned for %s", host)
			}
			return dialer.DialContext(ctx, network, net.JoinHostPort(ip.String(), port))
		},
	}

	hopCount := 0
	client := &http.Client{
		Transport: transport,
		Timeout:   f.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			hopCount++
			if hopCount > f.MaxRedirects {
				return &Error{Kind: KindRedirectBlocked, Message: "too many redirects"}
			}
			if _, err := f.preflightAndPin(req.Context(), req.URL.String(), pin); err != nil {
				return &Error{Kind: KindRedirectBlocked, Message: err.Error()}
			}
			if len(via) > 0 && req.URL.Host != via[0].URL.Host {
				req.Header.Del("Authorization")
				req.Header.Del("Api-Key")
				req.Header.Del("X-Api-Key")
				req.Header.Del("X-Goog-Api-Key")
				req.Header.Del("Cookie")
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, method, parsed.String(), body)
	if err != nil {
		return nil, &Error{Kind: KindBadURL, Message: err.Error()}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		if rerr, ok := asFetchError(err); ok {
			return nil, rerr
		}
		if ctx.Err() != nil {
			return nil, &Error{Kind: KindFetchTimeout, Message: err.Error()}
		}
		return nil, &Error{Kind: KindHTTPError, Message: err.Error()}
	}
	defer resp.Body.Close()

	if f.redirects != nil {
		f.redirects.Observe(float64(hopCount))
	}

	limited := io.LimitReader(resp.Body, f.MaxBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, &Error{Kind: KindHTTPError, Message: err.Error()}
	}

	truncated := false
	if int64(len(data)) > f.MaxBytes {
		data = data[:f.MaxBytes]
		truncated = true
	}

	return &models.FetchResult{
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		Body:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Truncated:   truncated,
	}, nil
}

// preflightAndPin runs the full §4.3 pre-flight validation against rawURL
// and, on success, records the address the transport must dial.
func (f *Fetcher) preflightAndPin(ctx context.Context, rawURL string, pin *pinnedHost) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &Error{Kind: KindBadURL, Message: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &Error{Kind: KindBadScheme, Message: u.Scheme}
	}
	if u.User != nil {
		return nil, &Error{Kind: KindBadURL, Message: "userinfo not allowed in url"}
	}
	host := u.Hostname()
	if host == "" {
		return nil, &Error{Kind: KindBadURL, Message: "missing host"}
	}

	ips, err := net.DefaultResolver.LookupIP(ctx, "ip", host)
	if err != nil || len(ips) == 0 {
		return nil, &Error{Kind: KindDNSFailed, Message: host}
	}
	if anyBlocked(ips) {
		return nil, &Error{Kind: KindBlockedAddress, Message: host}
	}

	pin.set(host, ips[0])
	return u, nil
}

func asFetchError(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
