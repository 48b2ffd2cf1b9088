// Package client calls the budgetly API and returns its {success, data, error} envelopes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgetly/internal/action"
	"github.com/MrJamesThe3rd/budgetly/internal/auth"
	"github.com/MrJamesThe3rd/budgetly/internal/budget"
	"github.com/MrJamesThe3rd/budgetly/internal/client/budgetstore"
	"github.com/MrJamesThe3rd/budgetly/internal/importer"
	"github.com/MrJamesThe3rd/budgetly/internal/matching"
	"github.com/MrJamesThe3rd/budgetly/internal/user"
)

var _ budgetstore.Actions = (*Client)(nil)

// Token is a signed session token and its expiry.
type Token struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Account is the public part of a registered user.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.token
}

// do sends body as JSON and decodes the envelope. Failure envelopes (4xx/5xx with a
// JSON body) are returned as results with Success false; only transport and decoding
// problems are errors.
func do[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (action.Result[T], error) {
	if body == nil {
		return send[T](ctx, c, method, path, query, nil, "")
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return action.Result[T]{}, fmt.Errorf("encoding request: %w", err)
	}

	return send[T](ctx, c, method, path, query, bytes.NewReader(raw), "application/json")
}

func send[T any](ctx context.Context, c *Client, method, path string, query url.Values, body io.Reader, contentType string) (action.Result[T], error) {
	var res action.Result[T]

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return res, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return res, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
	}

	return res, nil
}

// Login exchanges credentials for a session token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, in auth.LoginInput) (action.Result[Token], error) {
	res, err := do[Token](ctx, c, http.MethodPost, "/auth/login", nil, in)
	if err != nil {
		return res, err
	}

	if res.Success {
		c.SetToken(res.Data.Token)
	}

	return res, nil
}

func (c *Client) Register(ctx context.Context, params user.RegisterParams) (action.Result[Account], error) {
	return do[Account](ctx, c, http.MethodPost, "/auth/register", nil, params)
}

func (c *Client) Session(ctx context.Context) (action.Result[auth.Session], error) {
	return do[auth.Session](ctx, c, http.MethodGet, "/auth/session", nil, nil)
}

func (c *Client) CreateBudget(ctx context.Context, params budget.CreateParams) (action.Result[*budget.Budget], error) {
	return do[*budget.Budget](ctx, c, http.MethodPost, "/budgets", nil, params)
}

func (c *Client) CreateTransaction(
	ctx context.Context,
	budgetID uuid.UUID,
	params budget.CreateTransactionParams,
) (action.Result[*budget.Transaction], error) {
	return do[*budget.Transaction](ctx, c, http.MethodPost, budgetPath(budgetID, "/transactions"), nil, params)
}

func (c *Client) Budgets(ctx context.Context) (action.Result[[]*budget.Budget], error) {
	return do[[]*budget.Budget](ctx, c, http.MethodGet, "/budgets", nil, nil)
}

func (c *Client) Summary(ctx context.Context, budgetID uuid.UUID, r budget.DateRange) (action.Result[[]budget.TypeTotal], error) {
	return do[[]budget.TypeTotal](ctx, c, http.MethodGet, budgetPath(budgetID, "/summary"), rangeQuery(r), nil)
}

func (c *Client) CategorySummary(
	ctx context.Context,
	budgetID uuid.UUID,
	r budget.DateRange,
) (action.Result[[]budget.CategoryTotal], error) {
	return do[[]budget.CategoryTotal](ctx, c, http.MethodGet, budgetPath(budgetID, "/categories/summary"), rangeQuery(r), nil)
}

func (c *Client) HistoryYears(ctx context.Context, budgetID uuid.UUID) (action.Result[[]int], error) {
	return do[[]int](ctx, c, http.MethodGet, budgetPath(budgetID, "/history/years"), nil, nil)
}

func (c *Client) YearHistory(ctx context.Context, budgetID uuid.UUID, year int) (action.Result[[]budget.HistoryData], error) {
	q := url.Values{"year": {strconv.Itoa(year)}}

	return do[[]budget.HistoryData](ctx, c, http.MethodGet, budgetPath(budgetID, "/history/year"), q, nil)
}

func (c *Client) MonthHistory(
	ctx context.Context,
	budgetID uuid.UUID,
	year, month int,
) (action.Result[[]budget.HistoryData], error) {
	q := url.Values{"year": {strconv.Itoa(year)}, "month": {strconv.Itoa(month)}}

	return do[[]budget.HistoryData](ctx, c, http.MethodGet, budgetPath(budgetID, "/history/month"), q, nil)
}

func (c *Client) Transactions(
	ctx context.Context,
	budgetID uuid.UUID,
	r budget.DateRange,
) (action.Result[[]*budget.Transaction], error) {
	return do[[]*budget.Transaction](ctx, c, http.MethodGet, budgetPath(budgetID, "/transactions"), rangeQuery(r), nil)
}

func (c *Client) Categories(ctx context.Context) (action.Result[[]*budget.Category], error) {
	return do[[]*budget.Category](ctx, c, http.MethodGet, "/categories", nil, nil)
}

// ImportStatement uploads a CSV statement into a budget. With dryRun the server only
// reports how the rows would be categorised.
func (c *Client) ImportStatement(
	ctx context.Context,
	budgetID uuid.UUID,
	filename string,
	statement io.Reader,
	dryRun bool,
) (action.Result[*importer.Report], error) {
	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("dryRun", strconv.FormatBool(dryRun)); err != nil {
		return action.Result[*importer.Report]{}, fmt.Errorf("writing form: %w", err)
	}

	fw, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return action.Result[*importer.Report]{}, fmt.Errorf("writing form: %w", err)
	}

	if _, err := io.Copy(fw, statement); err != nil {
		return action.Result[*importer.Report]{}, fmt.Errorf("reading statement: %w", err)
	}

	if err := mw.Close(); err != nil {
		return action.Result[*importer.Report]{}, fmt.Errorf("writing form: %w", err)
	}

	return send[*importer.Report](ctx, c, http.MethodPost, "/imports/"+budgetID.String(), nil, &body, mw.FormDataContentType())
}

func (c *Client) LearnRule(ctx context.Context, params matching.LearnParams) (action.Result[*matching.Rule], error) {
	return do[*matching.Rule](ctx, c, http.MethodPost, "/rules", nil, params)
}

func budgetPath(id uuid.UUID, suffix string) string {
	return "/budgets/" + id.String() + suffix
}

func rangeQuery(r budget.DateRange) url.Values {
	q := url.Values{}

	if !r.From.IsZero() {
		q.Set("from", r.From.Format(time.RFC3339Nano))
	}

	if !r.To.IsZero() {
		q.Set("to", r.To.Format(time.RFC3339Nano))
	}

	return q
}
