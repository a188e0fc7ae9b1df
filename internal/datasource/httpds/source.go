package httpds

import (
	"context"
	"errors"
	"io"
	"net/http"

	"arxivdb/internal/datasource"
)

// Source reads an input feed from a URL.
type Source struct {
	url    string
	client *Client
}

// NewSource binds url to client. A nil client gets NewClient(Config{}).
func NewSource(url string, client *Client) *Source {
	if client == nil {
		client = NewClient(Config{})
	}
	return &Source{url: url, client: client}
}

// Open performs the GET and returns the response body. 404 and 410 map to
// datasource.ErrSourceNotFound; every other failure to ErrSourceUnreadable.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var se *StatusError
		if errors.As(err, &se) && (se.StatusCode == http.StatusNotFound || se.StatusCode == http.StatusGone) {
			return nil, datasource.NotFound(s.url, err)
		}
		return nil, datasource.Unreadable(s.url, err)
	}
	return resp.Body, nil
}
