package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseURL = &url.URL{Scheme: "http", Host: "marketplace.test", Path: "/"}

// Client sends requests straight to a handler and keeps the cookies it sets,
// the way a browser session would.
type Client struct {
	t       *testing.T
	handler http.Handler
	jar     *cookiejar.Jar
	bearer  string
}

// NewClient creates a Client with an empty cookie jar
func NewClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &Client{t: t, handler: handler, jar: jar}
}

// SetBearer sends token as a bearer Authorization header on later requests.
// An empty token stops sending the header.
func (c *Client) SetBearer(token string) {
	c.bearer = token
}

// Cookie returns the current value of the named cookie, or "" if unset
func (c *Client) Cookie(name string) string {
	for _, ck := range c.jar.Cookies(baseURL) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

// Do sends a request with body encoded as JSON when not nil. A string body
// is sent verbatim.
func (c *Client) Do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		reader = ToJSONReader(c.t, b)
	}

	req := httptest.NewRequest(method, baseURL.ResolveReference(&url.URL{Path: path}).String(), reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	for _, ck := range c.jar.Cookies(baseURL) {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	c.jar.SetCookies(baseURL, w.Result().Cookies())
	return w
}

// Envelope is the response wrapper every API endpoint returns
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

// DecodeEnvelope parses the response body as an API envelope
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

// DecodeData asserts a successful envelope and parses its data into T
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	env := DecodeEnvelope(t, w)
	require.True(t, env.Success, "body: %s", w.Body.String())

	var data T
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

// AssertErrorCode asserts status and the envelope error code
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, w.Code, "body: %s", w.Body.String())
	env := DecodeEnvelope(t, w)
	assert.False(t, env.Success)
	if assert.NotNil(t, env.Error) {
		assert.Equal(t, code, env.Error.Code)
	}
}

// ToJSONReader converts a value to a JSON io.Reader
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
