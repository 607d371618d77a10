//go:build integration

package integration

import (
	"net/http"
	"testing"
)

// The checks map carries only failing probes, so an empty map on a freshly
// seeded stack means the postgres readiness probe reaches the database.

func TestLivez(t *testing.T) {
	resp := doGet(t, "/livez")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[healthResponse](t, resp)
	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %q", body.Status)
	}
	for name, msg := range body.Checks {
		t.Errorf("liveness check %q failing: %s", name, msg)
	}
}

func TestReadyz(t *testing.T) {
	resp := doGet(t, "/readyz")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[healthResponse](t, resp)
	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %q", body.Status)
	}
	if msg, ok := body.Checks["postgres"]; ok {
		t.Fatalf("postgres readiness check failing: %s", msg)
	}
	for name, msg := range body.Checks {
		t.Errorf("readiness check %q failing: %s", name, msg)
	}

	// Readiness is backed by a live database ping: a seeded, DB-backed
	// request must succeed while the gate reports ready.
	catalogResp := doGetWithKey(t, "/api/restaurants", customerKey)
	defer catalogResp.Body.Close()
	if catalogResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from seeded catalog while ready, got %d", catalogResp.StatusCode)
	}
}
