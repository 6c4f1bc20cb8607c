package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mcgate/internal/compute"
)

type serviceMock struct {
	startFn  func(ctx context.Context) (Result, error)
	stopFn   func(ctx context.Context) (Result, error)
	statusFn func(ctx context.Context) (Result, error)
}

func (m serviceMock) Start(ctx context.Context) (Result, error)  { return m.startFn(ctx) }
func (m serviceMock) Stop(ctx context.Context) (Result, error)   { return m.stopFn(ctx) }
func (m serviceMock) Status(ctx context.Context) (Result, error) { return m.statusFn(ctx) }

func doRequest(t *testing.T, h *HandlerI, path string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.Register(mux)
	req := httptest.NewRequest(http.MethodGet, "https://gateway.example.com"+path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v (body=%s)", err, rec.Body.String())
	}
	return body
}

func checkLinks(t *testing.T, body map[string]any, base string) {
	t.Helper()
	links, ok := body["links"].(map[string]any)
	if !ok {
		t.Fatalf("links missing from body: %v", body)
	}
	for _, action := range []string{"start", "stop", "status"} {
		want := base + "/" + action
		if links[action] != want {
			t.Fatalf("link %s: got=%v want=%s", action, links[action], want)
		}
	}
}

func TestHandlerSuccessEnvelope(t *testing.T) {
	h := NewHandlerI(serviceMock{
		startFn: func(ctx context.Context) (Result, error) {
			return Result{Message: "instance starting"}, nil
		},
	}, "")

	rec := doRequest(t, h, "/start")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "instance starting" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if _, present := body["error"]; present {
		t.Fatalf("error field must be absent on success")
	}
	checkLinks(t, body, "https://gateway.example.com")
}

func TestHandlerErrorEnvelopeKeepsLinksAndPartialData(t *testing.T) {
	h := NewHandlerI(serviceMock{
		statusFn: func(ctx context.Context) (Result, error) {
			return Result{
				Instance: &compute.InstanceStatus{ID: "i-abc", State: "running", PublicIP: "203.0.113.10"},
				DNSName:  "myserver.duckdns.org",
			}, errors.New("failed to query status of minecraft server")
		},
	}, "")

	rec := doRequest(t, h, "/status")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "failed to query status of minecraft server" {
		t.Fatalf("unexpected error field: %v", body["error"])
	}
	if body["dnsName"] != "myserver.duckdns.org" {
		t.Fatalf("partial data missing: %v", body)
	}
	inst, ok := body["instance"].(map[string]any)
	if !ok || inst["state"] != "running" {
		t.Fatalf("instance data missing: %v", body)
	}
	checkLinks(t, body, "https://gateway.example.com")
}

func TestHandlerStageInLinks(t *testing.T) {
	h := NewHandlerI(serviceMock{
		stopFn: func(ctx context.Context) (Result, error) {
			return Result{Message: "instance is stopped"}, nil
		},
	}, "prod")

	rec := doRequest(t, h, "/stop")
	checkLinks(t, decodeBody(t, rec), "https://gateway.example.com/prod")
}

func TestHandlerMissingInstanceIDBypassesEnvelope(t *testing.T) {
	h := NewHandlerI(serviceMock{
		startFn: func(ctx context.Context) (Result, error) {
			return Result{}, ErrMissingInstanceID
		},
	}, "")

	rec := doRequest(t, h, "/start")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") == "application/json" {
		t.Fatalf("configuration errors must not be wrapped in the json envelope")
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err == nil {
		t.Fatalf("expected a raw error body, got json: %v", body)
	}
}
