package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/kasira/internal/config"
	"github.com/smallbiznis/kasira/internal/session"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config   config.Config
	Log      *zap.Logger
	Sessions *session.Manager
}

type httpClient struct {
	baseURL  string
	log      *zap.Logger
	sessions *session.Manager
	client   *http.Client
}

func New(p Params) Client {
	return &httpClient{
		baseURL:  strings.TrimRight(p.Config.RemoteBaseURL, "/"),
		log:      p.Log.Named("remote.client"),
		sessions: p.Sessions,
		client:   &http.Client{Timeout: p.Config.RemoteTimeout},
	}
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// pageEnvelope is the paged wrapper the remote API uses for product and
// transaction listings.
type pageEnvelope[T any] struct {
	Content []T `json:"content"`
}

func (c *httpClient) FetchCategories(ctx context.Context) ([]CategoryDTO, error) {
	var categories []CategoryDTO
	if err := c.doJSON(ctx, http.MethodGet, "/product-category", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *httpClient) FetchCatalog(ctx context.Context, pageSize int, includeDeleted bool) ([]ProductDTO, error) {
	query := url.Values{}
	query.Set("size", strconv.Itoa(pageSize))
	query.Set("includeDeleted", strconv.FormatBool(includeDeleted))

	var page pageEnvelope[ProductDTO]
	if err := c.doJSON(ctx, http.MethodGet, "/product", query, nil, &page); err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (c *httpClient) FetchTransactions(ctx context.Context, pageNum, size int, sort string) ([]TransactionDTO, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(pageNum))
	query.Set("size", strconv.Itoa(size))
	if sort != "" {
		query.Set("sort", sort)
	}

	var page pageEnvelope[TransactionDTO]
	if err := c.doJSON(ctx, http.MethodGet, "/transaction", query, nil, &page); err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (c *httpClient) SubmitTransaction(ctx context.Context, payload SubmitTransactionRequest) (*TransactionDTO, error) {
	var created TransactionDTO
	if err := c.doJSON(ctx, http.MethodPost, "/transaction", nil, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *httpClient) doJSON(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body interface{},
	out interface{},
) error {
	op := method + " " + path

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var bodyReader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		bodyReader = bytes.NewReader(raw)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess, err := c.sessions.Current(); err == nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("remote call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var envelope errorEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return &RemoteError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Code:       envelope.Code,
			Message:    envelope.Message,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
