package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/five82/maitre/internal/queue"
)

// QueueAPI is the remote surface maitre drives. *Client implements it;
// tests substitute fakes.
type QueueAPI interface {
	ListQueue(ctx context.Context) ([]queue.Entry, error)
	CreateCustomer(ctx context.Context, req CreateRequest) (CreateResponse, error)
	UpdateStatus(ctx context.Context, id int64, status queue.Status) error
	DeleteCustomer(ctx context.Context, id int64) error
	Search(ctx context.Context, term string) ([]queue.Entry, error)
	PredictWait(ctx context.Context, snapshot []queue.Entry, candidate CreateRequest) (Prediction, error)
	QueueInsights(ctx context.Context, snapshot []queue.Entry) (Insights, error)
	CustomerQR(ctx context.Context, id int64) (QRCode, error)
	SendSMS(ctx context.Context, to, message string) error
	Analytics(ctx context.Context) (Analytics, error)
	QueueStats(ctx context.Context) (QueueStats, error)
	CustomerStatus(ctx context.Context, queueNumber string) (CustomerStatus, error)
}

// Ensure Client implements QueueAPI at compile time.
var _ QueueAPI = (*Client)(nil)

// Client talks to the restaurant queue HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

// Options tune a Client. The zero value is usable.
type Options struct {
	Timeout   time.Duration     // zero uses defaultTimeout
	Transport http.RoundTripper // wrapped with otelhttp; nil uses http.DefaultTransport
	Logger    *slog.Logger
	UserAgent string
}

const (
	defaultAPIURL    = "127.0.0.1:5000"
	defaultUserAgent = "maitre/0.1"
	defaultTimeout   = 10 * time.Second
	maxErrorBody     = 64 * 1024
)

// NewClient builds a Client for apiURL, which may be a bare host:port.
func NewClient(apiURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		userAgent: userAgent,
		logger:    logger,
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListQueue fetches the full queue snapshot.
func (c *Client) ListQueue(ctx context.Context) ([]queue.Entry, error) {
	var entries []queue.Entry
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/api/queue"}, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateCustomer submits a new party. A decoded success:false body is
// returned as a *RemoteError.
func (c *Client) CreateCustomer(ctx context.Context, req CreateRequest) (CreateResponse, error) {
	var resp CreateResponse
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/api/customers"}, req, &resp); err != nil {
		return CreateResponse{}, err
	}
	if !resp.Success {
		return resp, &RemoteError{Op: "create customer", Message: firstNonEmpty(resp.Error, "request rejected")}
	}
	return resp, nil
}

// UpdateStatus moves a customer to status.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status queue.Status) error {
	rel := &url.URL{Path: "/api/customers/" + strconv.FormatInt(id, 10) + "/status"}
	body := statusRequest{CustomerID: id, Status: status}
	var resp successResponse
	if err := c.do(ctx, http.MethodPut, rel, body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &RemoteError{Op: "update status", Message: firstNonEmpty(resp.Error, "customer not updated")}
	}
	return nil
}

// DeleteCustomer removes a customer from the queue.
func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	rel := &url.URL{Path: "/api/customers/" + strconv.FormatInt(id, 10)}
	var resp successResponse
	if err := c.do(ctx, http.MethodDelete, rel, nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &RemoteError{Op: "delete customer", Message: firstNonEmpty(resp.Error, "customer not removed")}
	}
	return nil
}

// Search asks the server for customers whose name or phone contains term.
func (c *Client) Search(ctx context.Context, term string) ([]queue.Entry, error) {
	values := url.Values{}
	values.Set("q", term)
	rel := &url.URL{Path: "/api/customers/search", RawQuery: values.Encode()}
	var entries []queue.Entry
	if err := c.do(ctx, http.MethodGet, rel, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// PredictWait asks the prediction service to estimate a wait for candidate
// given the current snapshot.
func (c *Client) PredictWait(ctx context.Context, snapshot []queue.Entry, candidate CreateRequest) (Prediction, error) {
	body := predictRequest{QueueData: nonNilEntries(snapshot), CustomerData: candidate}
	var resp Prediction
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/api/predict-wait-time"}, body, &resp); err != nil {
		return Prediction{}, err
	}
	return resp, nil
}

// QueueInsights requests an efficiency analysis of snapshot.
func (c *Client) QueueInsights(ctx context.Context, snapshot []queue.Entry) (Insights, error) {
	body := insightsRequest{QueueData: nonNilEntries(snapshot)}
	var resp Insights
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/api/queue-insights"}, body, &resp); err != nil {
		return Insights{}, err
	}
	return resp, nil
}

// CustomerQR fetches the status-page QR code for a customer.
func (c *Client) CustomerQR(ctx context.Context, id int64) (QRCode, error) {
	rel := &url.URL{Path: "/api/customer/" + strconv.FormatInt(id, 10) + "/qr"}
	var resp QRCode
	if err := c.do(ctx, http.MethodGet, rel, nil, &resp); err != nil {
		return QRCode{}, err
	}
	return resp, nil
}

// SendSMS relays a text message through the backend's SMS gateway.
func (c *Client) SendSMS(ctx context.Context, to, message string) error {
	var resp smsResponse
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/send_sms"}, smsRequest{To: to, Message: message}, &resp); err != nil {
		return err
	}
	if !strings.EqualFold(resp.Status, "success") {
		return &RemoteError{Op: "send sms", Message: firstNonEmpty(resp.Message, "gateway rejected message")}
	}
	return nil
}

// Analytics fetches the dashboard figures.
func (c *Client) Analytics(ctx context.Context) (Analytics, error) {
	var resp Analytics
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/api/analytics"}, nil, &resp); err != nil {
		return Analytics{}, err
	}
	return resp, nil
}

// QueueStats fetches the server-side queue counters.
func (c *Client) QueueStats(ctx context.Context) (QueueStats, error) {
	var resp QueueStats
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/api/queue/stats"}, nil, &resp); err != nil {
		return QueueStats{}, err
	}
	return resp, nil
}

// CustomerStatus looks up a party by queue number, as the customer-facing
// status page does.
func (c *Client) CustomerStatus(ctx context.Context, queueNumber string) (CustomerStatus, error) {
	number := strings.TrimSpace(queueNumber)
	if number == "" {
		return CustomerStatus{}, fmt.Errorf("queue number required")
	}
	rel := &url.URL{Path: "/api/customer/status/" + url.PathEscape(number)}
	var resp CustomerStatus
	if err := c.do(ctx, http.MethodGet, rel, nil, &resp); err != nil {
		return CustomerStatus{}, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		"method", method,
		"path", rel.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)

	if resp.StatusCode >= 400 {
		return decodeRemoteError(method+" "+rel.Path, resp)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeRemoteError(op string, resp *http.Response) error {
	remote := &RemoteError{Op: op, StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return remote
	}
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &envelope) == nil {
		remote.Message = firstNonEmpty(envelope.Error, envelope.Message)
	}
	return remote
}

// RemoteError is a request the server understood but refused, either by
// status code or by a success:false / status:"error" body.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	switch {
	case e.Message != "" && e.StatusCode != 0:
		return fmt.Sprintf("api %s returned status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	default:
		return fmt.Sprintf("api %s returned status %d", e.Op, e.StatusCode)
	}
}

// UserMessage returns the server-provided message when there is one.
func UserMessage(err error) string {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func nonNilEntries(entries []queue.Entry) []queue.Entry {
	if entries == nil {
		return []queue.Entry{}
	}
	return entries
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
