package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	ilog "mcgate/internal/log"
)

type HandlerI struct {
	service Service
	stage   string
}

func NewHandlerI(service Service, stage string) *HandlerI {
	return &HandlerI{service: service, stage: stage}
}

func (h *HandlerI) Register(mux *http.ServeMux) {
	mux.HandleFunc("/start", h.handle("/start", h.service.Start))
	mux.HandleFunc("/stop", h.handle("/stop", h.service.Stop))
	mux.HandleFunc("/status", h.handle("/status", h.service.Status))
}

func (h *HandlerI) handle(route string, op func(ctx context.Context) (Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := ilog.Component("gateway")
		logger.Infof("request route=%s method=%s host=%s", route, r.Method, r.Host)

		res, err := op(r.Context())

		// a missing instance id is a deployment defect, not an operation
		// outcome: surface it raw, without the response envelope
		if errors.Is(err, ErrMissingInstanceID) {
			logger.Errorf("configuration error on %s: %v", route, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		status, body := h.envelope(r, res, err)
		raw, merr := json.Marshal(body)
		if merr != nil {
			logger.Errorf("marshal response failed: %v", merr)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		logger.Infof("response route=%s status=%d body=%s", route, status, raw)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(raw)
	}
}

// envelope wraps an operation outcome into the uniform {statusCode, body}
// shape: 200 with handler fields on success, 500 with an "error" field on
// failure, and the three navigation links either way.
func (h *HandlerI) envelope(r *http.Request, res Result, err error) (int, map[string]any) {
	body := map[string]any{}
	if res.Message != "" {
		body["message"] = res.Message
	}
	if res.Instance != nil {
		body["instance"] = res.Instance
	}
	if res.Server != nil {
		body["server"] = res.Server
	}
	if res.DNSName != "" {
		body["dnsName"] = res.DNSName
	}
	body["links"] = h.links(r)

	if err != nil {
		body["error"] = err.Error()
		return http.StatusInternalServerError, body
	}
	return http.StatusOK, body
}

func (h *HandlerI) links(r *http.Request) map[string]string {
	base := "https://" + r.Host
	if h.stage != "" {
		base += "/" + h.stage
	}
	return map[string]string{
		"start":  base + "/start",
		"stop":   base + "/stop",
		"status": base + "/status",
	}
}
