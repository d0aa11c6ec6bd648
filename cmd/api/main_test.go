package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/s4ngmin-9/Fast-API/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		StoreDriver:             config.DriverMemory,
		JWTSecret:               "secret",
		JWTAlgorithm:            "HS256",
		AccessTokenExpireMinute: 30,
		DeliveryDays:            2,
		DeliveryMaxDays:         3650,
		DeliveryRule:            "delivery",
		Holidays:                []string{"2025-01-01"},
		ETACacheTTL:             time.Hour,
		RateLimitRequests:       100,
		RateLimitWindow:         time.Minute,
	}
}

func TestNewAppSeedsDemoUsers(t *testing.T) {
	a, err := newApp(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()
	srv := httptest.NewServer(a.handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/users/")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	var users []struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 2 || users[0].Username != "john_doe" || users[1].Username != "jane_doe" {
		t.Fatalf("unexpected demo users %+v", users)
	}

	form := url.Values{"username": {"jane_doe"}, "password": {"password456"}}
	resp, err = http.Post(srv.URL+"/users/login", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected login to succeed, got %d", resp.StatusCode)
	}
}

func TestNewAppUsesConfiguredHolidays(t *testing.T) {
	cfg := testConfig()
	cfg.DeliveryRule = "weekend+holidays"
	a, err := newApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()
	srv := httptest.NewServer(a.handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/deliveries/eta?purchase_date=2024-12-31")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	var q struct {
		ETA  string `json:"eta"`
		Rule string `json:"rule"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.ETA != "2025-01-03" || q.Rule != "weekend+holidays" {
		t.Fatalf("unexpected quote %+v", q)
	}
}

func TestNewAppRejectsBadHolidays(t *testing.T) {
	cfg := testConfig()
	cfg.Holidays = []string{"2025-02-30"}
	if _, err := newApp(context.Background(), cfg); err == nil {
		t.Fatalf("expected invalid holiday to be rejected")
	}
}
