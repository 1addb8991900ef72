package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/streamchat/internal/errors"
	"github.com/diogo/streamchat/internal/models"
)

// FragmentFunc is called after each received fragment with the full
// accumulated reply text so far, never a diff. Returning an error
// aborts the exchange.
type FragmentFunc func(cumulative string) error

// StreamChat sends the transcript to the backend and consumes the
// newline-delimited JSON reply incrementally. Each line exposing a
// "response" string field contributes that text to the accumulator;
// onFragment is invoked with the cumulative text after every
// contribution. Lines that are not valid JSON are skipped; a line
// split across body reads is reassembled by the buffered reader, not
// dropped. Returns the final accumulated text when the stream ends.
func (c *Client) StreamChat(ctx context.Context, messages []models.Message, onFragment FragmentFunc) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return "", apierrors.NewAPIError(0, models.ChatEndpoint, "failed to marshal request: "+err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+models.ChatEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", apierrors.NewAPIError(0, models.ChatEndpoint, "failed to create request: "+err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewAPIError(0, models.ChatEndpoint, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", apierrors.NewAPIError(resp.StatusCode, models.ChatEndpoint, strings.TrimSpace(string(detail)))
	}

	return c.consume(ctx, resp.Body, onFragment)
}

// consume runs the incremental assembly loop over the response body.
func (c *Client) consume(ctx context.Context, r io.Reader, onFragment FragmentFunc) (string, error) {
	reader := bufio.NewReader(r)

	var accumulator strings.Builder
	skipped := 0

	for {
		select {
		case <-ctx.Done():
			return accumulator.String(), ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')

		// A final line without a trailing newline still counts.
		if text, ok := extractFragment(line); ok {
			accumulator.WriteString(text)
			if onFragment != nil {
				if cbErr := onFragment(accumulator.String()); cbErr != nil {
					return accumulator.String(), cbErr
				}
			}
		} else if strings.TrimSpace(line) != "" && !gjson.Valid(strings.TrimSpace(line)) {
			skipped++
		}

		if err != nil {
			if err == io.EOF {
				break
			}
			return accumulator.String(), apierrors.NewAPIError(0, models.ChatEndpoint, "failed to read stream: "+err.Error())
		}
	}

	if skipped > 0 {
		c.logf("skipped %d malformed stream fragment(s)", skipped)
	}

	return accumulator.String(), nil
}

// extractFragment parses one stream line and returns its response text.
// Empty lines, malformed JSON, and objects without a "response" string
// all yield ok=false; the distinction between malformed and merely
// fragment-free lines is the caller's concern.
func extractFragment(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}

	if !gjson.Valid(line) {
		return "", false
	}

	field := gjson.Get(line, "response")
	if field.Type != gjson.String {
		return "", false
	}

	return field.String(), true
}
