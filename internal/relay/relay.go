// Package relay implements the stateless edge proxy that forwards browser
// requests under /api/justride to the upstream Justride ticketing service.
// It rewrites the request target, strips browser-injected headers, and on the
// way back rewrites Set-Cookie paths so the upstream session cookie is scoped
// to the externally visible proxy path instead of upstream's internal one.
package relay

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Prefix is the path prefix the relay is mounted at. Requests outside it
// receive an empty 404.
const Prefix = "/api/justride"

// brokerPath is the upstream cookie path that must be remapped so the browser
// associates the session cookie with the proxied path.
const (
	brokerPath          = "Path=/broker"
	rewrittenBrokerPath = "Path=" + Prefix + "/broker"
)

// strippedHeaders are removed from every outbound request. They are either
// hop-by-hop, set by the browser for its own origin, or would leak the proxy
// deployment to the upstream.
var strippedHeaders = []string{
	"Accept-Encoding",
	"Connection",
	"Host",
	"Origin",
	"Referer",
	"Sec-Fetch-Dest",
	"Sec-Fetch-Mode",
	"Sec-Fetch-Site",
	"X-Forwarded-Host",
	"X-Mf-Sec-Fetch-Mode",
}

// Metrics is the subset of metric recording the relay needs.
// A nil Metrics disables recording.
type Metrics interface {
	RecordRelayRequest(status int)
	RecordUpstreamLatency(d time.Duration)
}

// Handler forwards requests under Prefix to the configured upstream origin.
type Handler struct {
	upstream *url.URL
	client   *http.Client
	logger   *slog.Logger
	metrics  Metrics
}

// New constructs a relay Handler targeting the given upstream origin
// (scheme + host, no path). client may be nil, in which case
// http.DefaultClient is used.
func New(upstream *url.URL, client *http.Client, logger *slog.Logger, metrics Metrics) *Handler {
	if client == nil {
		client = http.DefaultClient
	}
	return &Handler{upstream: upstream, client: client, logger: logger, metrics: metrics}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, Prefix) {
		w.WriteHeader(http.StatusNotFound)
		h.record(http.StatusNotFound)
		return
	}

	target := h.targetURL(r.URL)

	out, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		h.record(http.StatusBadRequest)
		return
	}
	out.Header = outboundHeaders(r.Header)
	if r.ContentLength > 0 {
		out.ContentLength = r.ContentLength
	}

	start := time.Now()
	resp, err := h.client.Do(out)
	if err != nil {
		h.logger.Error("upstream request failed",
			"method", r.Method,
			"target", target.String(),
			"error", err,
		)
		http.Error(w, "upstream unreachable", http.StatusBadGateway)
		h.record(http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()
	if h.metrics != nil {
		h.metrics.RecordUpstreamLatency(time.Since(start))
	}

	copyResponseHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	h.record(resp.StatusCode)

	// Stream the body straight through; buffering here would serve nothing.
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Warn("relay body copy interrupted", "error", err)
	}
}

// targetURL maps the proxied request URL onto the upstream origin by
// stripping the mount prefix and carrying the query string over unchanged.
func (h *Handler) targetURL(u *url.URL) *url.URL {
	target := *h.upstream
	target.Path = strings.TrimPrefix(u.Path, Prefix)
	target.RawQuery = u.RawQuery
	return &target
}

// outboundHeaders copies the inbound headers, removes the stripped set, and
// marks the request as an API call. The upstream uses X-Requested-With to
// distinguish API calls from browser navigation.
func outboundHeaders(in http.Header) http.Header {
	out := in.Clone()
	for _, name := range strippedHeaders {
		out.Del(name)
	}
	out.Set("X-Requested-With", "XMLHttpRequest")
	return out
}

// copyResponseHeaders passes all upstream response headers through, rewriting
// any Set-Cookie scoped to upstream's /broker path onto the proxied path.
// Other cookie attributes are untouched.
func copyResponseHeaders(dst, src http.Header) {
	for name, values := range src {
		if http.CanonicalHeaderKey(name) == "Set-Cookie" {
			for _, v := range values {
				dst.Add("Set-Cookie", rewriteCookiePath(v))
			}
			continue
		}
		for _, v := range values {
			dst.Add(name, v)
		}
	}
}

// rewriteCookiePath remaps the literal Path=/broker attribute to the relay's
// mount point. Any other upstream cookie path passes through unrewritten;
// the upstream is only known to scope its session cookie to /broker.
func rewriteCookiePath(cookie string) string {
	return strings.Replace(cookie, brokerPath, rewrittenBrokerPath, 1)
}

func (h *Handler) record(status int) {
	if h.metrics != nil {
		h.metrics.RecordRelayRequest(status)
	}
}
