package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GetJson performs a GET and decodes a JSON body into T. Non-2xx
// responses are returned as errors carrying the body text.
func GetJson[T any](ctx context.Context, url string) (T, error) {
	var objects T

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return objects, err
	}
	request.Header.Set("Accept", "application/json")

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return objects, err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
		return objects, fmt.Errorf("GET %s: %s: %s", url, response.Status, body)
	}

	if err := json.NewDecoder(response.Body).Decode(&objects); err != nil {
		return objects, fmt.Errorf("GET %s: decoding response: %w", url, err)
	}
	return objects, nil
}
