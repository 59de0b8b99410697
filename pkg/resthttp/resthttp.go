package resthttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"comptroller/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/go-resty/resty/v2"
)

const headerKeyRequestID = "X-Request-Id"

// StatusError a non 2xx response
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Body)
}

// IsNotFound reports whether err is a 404 response
func IsNotFound(err error) bool {
	e, ok := err.(*StatusError)
	return ok && e.Status == http.StatusNotFound
}

// Client json client of one remote service
type Client struct {
	r *resty.Client
}

// New client for the service at baseURL. Transport errors are retried
// twice.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	r := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)

	return &Client{r: r}
}

// Get decodes the body of GET path into resp
func (c *Client) Get(ctx context.Context, path string, resp interface{}) error {
	return c.Execute(ctx, resty.MethodGet, path, nil, resp)
}

// Execute sends body as json and decodes the 2xx body into resp. The trace
// of ctx is forwarded as the request id.
func (c *Client) Execute(ctx context.Context, method, path string, body, resp interface{}) error {
	log := logger.FromContext(ctx).WithField("url", path)

	request := c.r.R().
		SetContext(ctx).
		SetHeader(headerKeyRequestID, id.Trace(ctx))
	if body != nil {
		request = request.SetBody(body)
	}

	r, err := request.Execute(strings.ToUpper(method), path)
	if err != nil {
		log.WithError(err).Debugln("request failed")
		return err
	}

	log.Debugln(method, r.Status())
	return ParseResponse(r, resp)
}

// ParseResponse decodes a 2xx body into obj, other statuses become a
// *StatusError
func ParseResponse(r *resty.Response, obj interface{}) error {
	if !r.IsSuccess() {
		return &StatusError{
			Status: r.StatusCode(),
			Body:   strings.TrimSpace(string(r.Body())),
		}
	}

	if obj != nil {
		return json.Unmarshal(r.Body(), obj)
	}

	return nil
}
