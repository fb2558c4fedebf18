package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client HTTP-клиент API ассетов галереи
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option настраивает клиент
type Option func(*Client)

// WithHTTPClient подменяет HTTP-клиент
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout задает таймаут запросов (0 = без таймаута)
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient создает клиент для бэкенда по адресу baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL возвращает адрес бэкенда
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListAll возвращает страницу всех ассетов галереи
func (c *Client) ListAll(ctx context.Context, galleryUUID string, page, size int) (*AssetPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var resp assetListResponse
	path := "/galleries/" + url.PathEscape(galleryUUID) + "/assets?" + q.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return resp.page(), nil
}

// ListByPerson возвращает страницу ассетов, на которых найден человек
func (c *Client) ListByPerson(ctx context.Context, galleryUUID, personID string, page, size int) (*AssetPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var resp assetListResponse
	path := "/galleries/" + url.PathEscape(galleryUUID) + "/people/" + url.PathEscape(personID) + "/assets?" + q.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list person assets: %w", err)
	}
	return resp.page(), nil
}

// PersonStatistics возвращает количество ассетов человека
func (c *Client) PersonStatistics(ctx context.Context, galleryUUID, personID string) (*PersonStats, error) {
	var resp PersonStats
	path := "/galleries/" + url.PathEscape(galleryUUID) + "/people/" + url.PathEscape(personID) + "/statistics"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get person statistics: %w", err)
	}
	return &resp, nil
}

// SearchByKeyword ищет ассеты по ключевому слову. Общее количество не возвращается
func (c *Client) SearchByKeyword(ctx context.Context, galleryUUID, keyword string, page, count int) (*AssetPage, error) {
	req := searchRequest{Keyword: keyword, Page: page, Count: count}

	var resp assetListResponse
	path := "/galleries/" + url.PathEscape(galleryUUID) + "/search"
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to search assets: %w", err)
	}

	p := resp.page()
	p.Total, p.HasTotal = 0, false
	return p, nil
}

// ShareAuthenticate обменивает контакт и код доступа на список ID ассетов
func (c *Client) ShareAuthenticate(ctx context.Context, galleryUUID, contactID, accessCode string) ([]string, error) {
	req := shareAuthRequest{ContactID: contactID, AccessCode: accessCode}

	var resp shareAuthResponse
	path := "/galleries/" + url.PathEscape(galleryUUID) + "/share/authenticate"
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to authenticate share: %w", err)
	}
	return resp.ids(), nil
}

// CreateGuestShare создает гостевую ссылку на выбранные ассеты
func (c *Client) CreateGuestShare(ctx context.Context, galleryUUID, contact string, assetIDs []string) (*GuestShare, error) {
	req := guestShareRequest{Contact: contact, AssetIDs: assetIDs}

	var resp GuestShare
	path := "/galleries/" + url.PathEscape(galleryUUID) + "/guest-shares"
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create guest share: %w", err)
	}
	return &resp, nil
}

// Download загружает файл по абсолютному URL
func (c *Client) Download(ctx context.Context, rawURL string) (*Blob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}

	return &Blob{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
