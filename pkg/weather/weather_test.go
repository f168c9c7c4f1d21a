package weather_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lacri-bot/pkg/weather"
)

func TestCurrent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/2.5/weather" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		q := r.URL.Query()
		if q.Get("appid") != "test-key" || q.Get("units") != "metric" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch q.Get("q") {
		case "Paris":
			w.Write([]byte(`{"main":{"temp":18.6,"feels_like":17.4,"humidity":72},"weather":[{"description":"light rain"}],"wind":{"speed":4.1}}`))
		case "Nowhere":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"cod":"404","message":"city not found"}`))
		case "Empty":
			w.Write([]byte(`{"main":{"temp":1},"weather":[]}`))
		case "Garbage":
			w.Write([]byte(`<html>`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer ts.Close()

	client, err := weather.New(weather.Config{APIKey: "test-key", BaseURL: ts.URL + "/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		c, found, err := client.Current(ctx, "Paris")
		if err != nil || !found {
			t.Fatalf("expected found, got found=%v err=%v", found, err)
		}
		want := weather.Conditions{Temp: 19, FeelsLike: 17, Humidity: 72, Description: "light rain", WindSpeed: 4.1}
		if c != want {
			t.Errorf("expected %+v, got %+v", want, c)
		}
	})

	t.Run("Unknown city", func(t *testing.T) {
		_, found, err := client.Current(ctx, "Nowhere")
		if err != nil || found {
			t.Fatalf("expected not found without error, got found=%v err=%v", found, err)
		}
	})

	t.Run("Missing weather entry", func(t *testing.T) {
		_, _, err := client.Current(ctx, "Empty")
		if !errors.Is(err, weather.ErrMalformedResponse) {
			t.Fatalf("expected ErrMalformedResponse, got %v", err)
		}
	})

	t.Run("Undecodable body", func(t *testing.T) {
		_, _, err := client.Current(ctx, "Garbage")
		if !errors.Is(err, weather.ErrMalformedResponse) {
			t.Fatalf("expected ErrMalformedResponse, got %v", err)
		}
	})

	t.Run("Transport failure", func(t *testing.T) {
		bad, _ := weather.New(weather.Config{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
		_, found, err := bad.Current(ctx, "Paris")
		if found || !errors.Is(err, weather.ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got found=%v err=%v", found, err)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	if _, err := weather.New(weather.Config{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestSummary(t *testing.T) {
	s := weather.Conditions{Temp: 19, FeelsLike: 17, Humidity: 72, Description: "light rain", WindSpeed: 4.1}.Summary("Paris")
	for _, part := range []string{"Paris", "19°C", "17°C", "72%", "light rain", "4.1 m/s"} {
		if !strings.Contains(s, part) {
			t.Errorf("summary %q missing %q", s, part)
		}
	}
}
