package sources

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	retry "github.com/avast/retry-go/v4"
)

// fetchJSON performs a GET against an upstream catalog and decodes the JSON
// body into dest. Transport errors, 429s and 5xx responses are retried with
// backoff; 404 maps to ErrItemNotFound and any other non-success status to
// UpstreamError.
func fetchJSON(ctx context.Context, httpc *http.Client, source, rawURL string, dest any) error {
	return fetchJSONAttempts(ctx, httpc, source, rawURL, dest, 3)
}

// fetchJSONOnce is fetchJSON without retries, for auxiliary endpoints whose
// upstreams throttle aggressively and where a retry just burns budget.
func fetchJSONOnce(ctx context.Context, httpc *http.Client, source, rawURL string, dest any) error {
	return fetchJSONAttempts(ctx, httpc, source, rawURL, dest, 1)
}

func fetchJSONAttempts(ctx context.Context, httpc *http.Client, source, rawURL string, dest any, attempts uint) error {
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return &UpstreamError{Source: source, Err: err}
			}
			req.Header.Set("Accept", "application/json")
			resp, err := httpc.Do(req)
			if err != nil {
				return &UpstreamError{Source: source, Err: err}
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusNotFound:
				return ErrItemNotFound
			case resp.StatusCode >= 300:
				// Drain a little so the connection can be reused.
				io.Copy(io.Discard, io.LimitReader(resp.Body, 2048))
				return &UpstreamError{Source: source, StatusCode: resp.StatusCode}
			}

			b, err := io.ReadAll(resp.Body)
			if err != nil {
				return &UpstreamError{Source: source, Err: err}
			}
			body = b
			return nil
		},
		retry.Attempts(attempts),
		retry.Context(ctx),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var ue *UpstreamError
			return errors.As(err, &ue) && ue.retryable()
		}),
	)
	if err != nil {
		// A context deadline surfaced by retry-go still counts as an
		// upstream failure.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			var ue *UpstreamError
			if !errors.As(err, &ue) {
				return &UpstreamError{Source: source, Err: err}
			}
		}
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &UpstreamError{Source: source, Err: err}
	}
	return nil
}
