package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	eulererr "github.com/msto63/euler/foundation/core/error"
	"github.com/msto63/euler/internal/euler/rewriter"
	"github.com/msto63/euler/internal/euler/service"
	"github.com/msto63/euler/internal/euler/store"
	"github.com/msto63/euler/pkg/core/health"
	"github.com/msto63/euler/pkg/core/logging"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 64 << 10

// validate checks decoded requests. Field names in errors are the JSON names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("anglemode", func(fl validator.FieldLevel) bool {
		_, err := rewriter.ParseAngleMode(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("inputmode", func(fl validator.FieldLevel) bool {
		_, err := service.ParseMode(fl.Field().String())
		return err == nil
	})
	return v
}

// Handler serves the REST API
type Handler struct {
	version   string
	session   *service.Session
	health    *health.Registry
	startTime time.Time
	logger    *logging.Logger
}

// NewHandler creates a new API handler
func NewHandler(version string, session *service.Session, registry *health.Registry) *Handler {
	return &Handler{
		version:   version,
		session:   session,
		health:    registry,
		startTime: time.Now(),
		logger:    logging.New("euler-handler"),
	}
}

// CalculateRequest is the body of POST /api/v1/calculate. Without an
// angle mode the session's mode is used.
type CalculateRequest struct {
	Expression string `json:"expression" validate:"required"`
	AngleMode  string `json:"angle_mode,omitempty" validate:"omitempty,anglemode"`
}

// CalculateResponse is a calculation outcome together with its input
type CalculateResponse struct {
	Expression string             `json:"expression"`
	AngleMode  rewriter.AngleMode `json:"angle_mode"`
	service.Result
}

// HistoryResponse lists history entries, newest first
type HistoryResponse struct {
	Entries []store.Entry `json:"entries"`
	Count   int           `json:"count"`
}

// ClearResponse reports a history clear
type ClearResponse struct {
	Removed int `json:"removed"`
}

// SettingsRequest is the body of PUT /api/v1/settings; empty fields are left unchanged.
type SettingsRequest struct {
	AngleMode string `json:"angle_mode,omitempty" validate:"omitempty,anglemode"`
	InputMode string `json:"input_mode,omitempty" validate:"omitempty,inputmode"`
}

// SettingsResponse describes the session settings
type SettingsResponse struct {
	AngleMode   rewriter.AngleMode `json:"angle_mode"`
	InputMode   service.Mode       `json:"input_mode"`
	Placeholder string             `json:"placeholder"`
	Modes       []service.ModeInfo `json:"modes"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	path = strings.Trim(path, "/")

	switch path {
	case "":
		h.handleRoot(w, r)
	case "health":
		h.handleHealth(w, r)
	case "calculate":
		h.handleCalculate(w, r)
	case "history":
		h.handleHistory(w, r)
	case "settings":
		h.handleSettings(w, r)
	default:
		h.writeError(w, http.StatusNotFound, "not_found", "Endpoint not found", r.URL.Path)
	}
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "Euler Calculator",
		"version": h.version,
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
		"endpoints": map[string]string{
			"health":    "GET /api/v1/health",
			"calculate": "POST /api/v1/calculate",
			"history":   "GET|DELETE /api/v1/history",
			"settings":  "GET|PUT /api/v1/settings",
			"websocket": "GET /api/v1/calculate/ws",
		},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}

	report := h.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, report)
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use POST", "")
		return
	}

	var req CalculateRequest
	if err := decodeRequest(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid calculate request", err.Error())
		return
	}

	resp := h.calculate(r, req)
	status := http.StatusOK
	if !resp.OK {
		status = resp.ErrorKind.HTTPStatus()
	}
	h.writeJSON(w, status, resp)
}

// calculate runs a validated request against the session. A history
// failure is logged; the calculation result stands.
func (h *Handler) calculate(r *http.Request, req CalculateRequest) CalculateResponse {
	mode := h.session.AngleMode()
	if req.AngleMode != "" {
		mode, _ = rewriter.ParseAngleMode(req.AngleMode)
	}

	res, err := h.session.CalculateWith(r.Context(), req.Expression, mode)
	if err != nil {
		h.logger.Warn("Failed to record history entry", "error", err)
	}
	return CalculateResponse{
		Expression: req.Expression,
		AngleMode:  mode,
		Result:     res,
	}
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid limit", raw)
				return
			}
			limit = n
		}
		entries, err := h.session.History(r.Context(), limit)
		if err != nil {
			h.writeAppError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, HistoryResponse{Entries: entries, Count: len(entries)})

	case http.MethodDelete:
		removed, err := h.session.ClearHistory(r.Context())
		if err != nil {
			h.writeAppError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, ClearResponse{Removed: removed})

	default:
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET or DELETE", "")
	}
}

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, h.settings())

	case http.MethodPut:
		var req SettingsRequest
		if err := decodeRequest(w, r, &req); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid settings request", err.Error())
			return
		}
		if req.AngleMode != "" {
			mode, _ := rewriter.ParseAngleMode(req.AngleMode)
			h.session.SetAngleMode(mode)
		}
		if req.InputMode != "" {
			mode, _ := service.ParseMode(req.InputMode)
			h.session.SetInputMode(mode)
		}
		h.writeJSON(w, http.StatusOK, h.settings())

	default:
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET or PUT", "")
	}
}

func (h *Handler) settings() SettingsResponse {
	input := h.session.InputMode()
	info, _ := service.LookupMode(input)
	return SettingsResponse{
		AngleMode:   h.session.AngleMode(),
		InputMode:   input,
		Placeholder: info.Placeholder,
		Modes:       service.Modes,
	}
}

// decodeRequest reads a JSON body into v and validates it
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return validateRequest(v)
}

func validateRequest(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		default:
			msgs = append(msgs, fmt.Sprintf("%s: invalid value %q", fe.Field(), fmt.Sprint(fe.Value())))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	h.writeJSON(w, status, resp)
}

// writeAppError maps a coded error to its HTTP status
func (h *Handler) writeAppError(w http.ResponseWriter, err error) {
	code := eulererr.GetCode(err)
	h.logger.Error("Request failed", "error", err, "code", string(code))
	msg := err.Error()
	if e, ok := eulererr.As(err); ok {
		msg = e.Message()
	}
	h.writeError(w, code.HTTPStatus(), strings.ToLower(string(code)), msg, "")
}
