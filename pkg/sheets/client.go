// Package sheets is a thin client for the Google Sheets values API, scoped
// to the four operations the bot needs: append a row, read everything,
// update one cell and blank one row.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://sheets.googleapis.com"

// recordColumns is the width of one record row (name..vibe).
const recordColumns = 7

// StoreError is any non-success response from the store, carrying the raw
// diagnostic body. Callers surface a generic message to users and log the
// detail; there is no automatic retry.
type StoreError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("sheets %s error: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// API is the record-store contract the repository layer builds on.
// All row and column indices are 1-based.
type API interface {
	Append(ctx context.Context, values []string) error
	ListAll(ctx context.Context) ([][]string, error)
	UpdateCell(ctx context.Context, row, col int, value string) error
	ClearRow(ctx context.Context, row int) error
}

// Client talks to one sheet of one spreadsheet using API-key auth.
type Client struct {
	baseURL       string
	spreadsheetID string
	sheetName     string
	apiKey        string
	httpClient    *http.Client
}

func NewClient(spreadsheetID, sheetName, apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	return &Client{
		baseURL:       baseURL,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		apiKey:        apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type valueRange struct {
	Values [][]string `json:"values"`
}

// Append adds one row after the sheet's current contents. Either the whole
// row appears or an error is returned; the API has no partial-row outcome.
func (c *Client) Append(ctx context.Context, values []string) error {
	rng := fmt.Sprintf("%s!A1:%s1", c.sheetName, ColumnLetter(recordColumns))
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=RAW&key=%s",
		c.baseURL, c.spreadsheetID, url.PathEscape(rng), url.QueryEscape(c.apiKey))

	body, err := json.Marshal(valueRange{Values: [][]string{values}})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, "append", http.MethodPost, endpoint, body)
	return err
}

// ListAll returns the sheet's full contents, header row included at
// position 0. Callers skip the header and filter rows themselves.
func (c *Client) ListAll(ctx context.Context) ([][]string, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?key=%s",
		c.baseURL, c.spreadsheetID, url.PathEscape(c.sheetName), url.QueryEscape(c.apiKey))

	respBody, err := c.do(ctx, "list", http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var vr valueRange
	if err := json.Unmarshal(respBody, &vr); err != nil {
		return nil, fmt.Errorf("sheets list: decoding response: %w", err)
	}
	return vr.Values, nil
}

// UpdateCell writes a single cell addressed by 1-based row and column.
func (c *Client) UpdateCell(ctx context.Context, row, col int, value string) error {
	rng := fmt.Sprintf("%s!%s%d", c.sheetName, ColumnLetter(col), row)
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?valueInputOption=RAW&key=%s",
		c.baseURL, c.spreadsheetID, url.PathEscape(rng), url.QueryEscape(c.apiKey))

	body, err := json.Marshal(valueRange{Values: [][]string{{value}}})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, "update", http.MethodPut, endpoint, body)
	return err
}

// ClearRow blanks a row's record range in place. The row is not removed, so
// the indices of the rows after it stay stable.
func (c *Client) ClearRow(ctx context.Context, row int) error {
	rng := fmt.Sprintf("%s!A%d:%s%d", c.sheetName, row, ColumnLetter(recordColumns), row)
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:clear?key=%s",
		c.baseURL, c.spreadsheetID, url.PathEscape(rng), url.QueryEscape(c.apiKey))

	_, err := c.do(ctx, "clear", http.MethodPost, endpoint, nil)
	return err
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewBuffer(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StoreError{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

// ColumnLetter converts a 1-based column index to A1-notation letters
// (1=A .. 26=Z, 27=AA, ...).
func ColumnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}
