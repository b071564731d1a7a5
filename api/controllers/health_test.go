package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mercanto/storefront-backend/pkg/config"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func healthConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test", Port: "0"}}
}

func TestHealthLiveSetsEnvHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	HealthLive(healthConfig())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if resp.Header().Get("X-Mercanto-Env") != "test" {
		t.Fatal("missing environment header")
	}
}

func TestHealthReadyOK(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	HealthReady(healthConfig(), ok, ok, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestHealthReadyFailsWhenDatabaseDown(t *testing.T) {
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })
	ok := pingerFunc(func(context.Context) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	HealthReady(healthConfig(), down, ok, testLogger())(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestHealthReadyFailsWhenRedisDown(t *testing.T) {
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })
	ok := pingerFunc(func(context.Context) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	HealthReady(healthConfig(), ok, down, testLogger())(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
