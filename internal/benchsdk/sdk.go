package benchsdk

import (
	"net"
	"net/http"
	"time"

	"github.com/benchwrap/benchwrap/internal/utils"
	"github.com/benchwrap/benchwrap/internal/version"
	"github.com/google/uuid"
	"github.com/imroc/req/v3"
)

const (
	HeaderSession = "X-Benchwrap-Session"

	connectTimeout = 10 * time.Second
	requestTimeout = 40 * time.Second // connect + 30s read
)

// Client talks to the benchwrap storage service. One Client is created per
// CLI invocation and shared by every upload worker; both underlying HTTP
// clients are safe for concurrent use.
type Client struct {
	api     *req.Client
	put     *http.Client
	baseURL string
	session string
}

// New creates a client for the service at baseURL. No request is retried:
// a failed call is reported to the caller as-is.
func New(baseURL string) *Client {
	baseURL = utils.NormalizeURL(baseURL)
	session := uuid.NewString()
	dialer := &net.Dialer{Timeout: connectTimeout}

	api := req.C().
		SetBaseURL(baseURL).
		SetUserAgent(version.UserAgent()).
		SetCommonHeader(HeaderSession, session).
		SetTimeout(requestTimeout).
		SetDial(dialer.DialContext).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal)

	// Presigned PUTs may stream for a long time, so only dialing and the TLS
	// handshake are bounded here.
	put := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   connectTimeout,
			ExpectContinueTimeout: time.Second,
			MaxIdleConnsPerHost:   16,
		},
	}

	return &Client{
		api:     api,
		put:     put,
		baseURL: baseURL,
		session: session,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session identifies this client in server logs.
func (c *Client) Session() string {
	return c.session
}

// Close releases idle connections.
func (c *Client) Close() {
	c.put.CloseIdleConnections()
	c.api.GetClient().CloseIdleConnections()
}
