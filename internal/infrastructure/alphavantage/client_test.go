package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchReturnsRawQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "GLOBAL_QUOTE" {
			t.Errorf("function = %q", got)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("symbol = %q", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "test-key" {
			t.Errorf("apikey = %q", got)
		}
		w.Write([]byte(`{"Global Quote": {
			"01. symbol": "AAPL",
			"05. price": "150.2500",
			"06. volume": "1000000",
			"10. change percent": "0.84%"
		}}`))
	}))
	defer srv.Close()

	c := New("test-key", time.Second, WithBaseURL(srv.URL))
	raw, err := c.Fetch(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if raw["05. price"] != "150.2500" {
		t.Errorf("price = %q", raw["05. price"])
	}
	if raw["10. change percent"] != "0.84%" {
		t.Errorf("change percent = %q", raw["10. change percent"])
	}
}

func TestFetchEmptyPayloadIsUnavailable(t *testing.T) {
	cases := map[string]string{
		"missing section": `{"Note": "rate limited"}`,
		"empty section":   `{"Global Quote": {}}`,
		"bad json":        `not json`,
	}
	for name, body := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		c := New("test-key", time.Second, WithBaseURL(srv.URL))
		_, err := c.Fetch(context.Background(), "AAPL")
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("%s: err = %v, want ErrUnavailable", name, err)
		}
		srv.Close()
	}
}

func TestFetchNonSuccessStatusIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New("test-key", time.Second, WithBaseURL(srv.URL))
	if _, err := c.Fetch(context.Background(), "AAPL"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestFetchTimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New("test-key", 20*time.Millisecond, WithBaseURL(srv.URL))
	if _, err := c.Fetch(context.Background(), "AAPL"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
