package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"ecommerce-edge/internal/email"
	"ecommerce-edge/internal/gzip"
	"ecommerce-edge/internal/handler/config"
	"ecommerce-edge/internal/logger"
	"ecommerce-edge/internal/ratelimit"
	ratelimitConfig "ecommerce-edge/internal/ratelimit/config"
	"ecommerce-edge/internal/service"
)

func Serve(cfg config.Config, rlcfg ratelimitConfig.Config, limiter ratelimit.Limiter, service service.Service, zaplog *zap.Logger) error {
	h := newHandler(cfg, rlcfg, limiter, service, zaplog)
	router := h.newRouter()

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	return srv.ListenAndServe()
}

type handler struct {
	cfg     config.Config
	rlcfg   ratelimitConfig.Config
	limiter ratelimit.Limiter
	service service.Service
	zaplog  *zap.Logger
}

func newHandler(cfg config.Config, rlcfg ratelimitConfig.Config, limiter ratelimit.Limiter, service service.Service, zaplog *zap.Logger) *handler {
	return &handler{
		cfg:     cfg,
		rlcfg:   rlcfg,
		limiter: limiter,
		service: service,
		zaplog:  zaplog,
	}
}

func (h *handler) newRouter() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /export-order-csv", gzip.GzipMiddleware(logger.RequestLogMdlw(h.cors(h.rateLimited("export-order-csv", h.ExportOrderCSV)), h.zaplog)))
	mux.HandleFunc("POST /send-order-email", gzip.GzipMiddleware(logger.RequestLogMdlw(h.cors(h.rateLimited("send-order-email", h.SendOrderEmail)), h.zaplog)))
	mux.HandleFunc("OPTIONS /export-order-csv", gzip.GzipMiddleware(logger.RequestLogMdlw(h.cors(h.Preflight), h.zaplog)))
	mux.HandleFunc("OPTIONS /send-order-email", gzip.GzipMiddleware(logger.RequestLogMdlw(h.cors(h.Preflight), h.zaplog)))

	return mux
}

// cors adds the permissive headers every response carries, preflight
// included.
func (h *handler) cors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		next(w, r)
	}
}

func (h *handler) Preflight(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

// rateLimited gates the handler behind the admission check. A rejected
// request gets the fixed 429 response and no further work happens.
func (h *handler) rateLimited(tag string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identifier := clientIP(r) + ":" + tag

		decision, err := h.limiter.Check(r.Context(), identifier)
		if err != nil {
			// shared counter store unavailable: admit rather than
			// refuse everything
			h.zaplog.Warn("rate limit check failed",
				zap.String("identifier", identifier),
				zap.Error(err))
			next(w, r)
			return
		}

		if !decision.Allowed {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(h.rlcfg.Window.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			responseJSON, _ := json.Marshal(errorJSONResponse{
				Error:   "Rate limit exceeded",
				Message: fmt.Sprintf("Maximum %d requests per %d seconds", h.rlcfg.MaxRequests, int(h.rlcfg.Window.Seconds())),
			})
			w.Write(responseJSON)
			return
		}

		next(w, r)
	}
}

// clientIP takes the first address of X-Forwarded-For. Without the
// header the caller is "unknown" and all such callers share one
// budget.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	return "unknown"
}

func (h *handler) ExportOrderCSV(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order_id")
	format := r.URL.Query().Get("format")

	result, err := h.service.ExportOrderCSV(r.Context(), orderID, format)
	if err != nil {
		switch err {
		case service.ErrInsufficientData:
			h.errorJSON(w, http.StatusBadRequest, "order_id parameter is required", "")
		case service.ErrOrderNotFound:
			h.errorJSON(w, http.StatusNotFound, "order not found", "")
		default:
			h.serverError(w, "failed to generate CSV", err)
		}
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Write([]byte(result.CSV))
}

type SendOrderEmailJSONRequest struct {
	OrderID   string `json:"order_id"`
	EmailType string `json:"email_type"`
}

type SendOrderEmailJSONResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	OrderID string         `json:"order_id"`
	Preview *email.Content `json:"preview,omitempty"`
}

func (h *handler) SendOrderEmail(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(r.Body)
	if err != nil {
		h.errorJSON(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	var requestJSON SendOrderEmailJSONRequest
	err = json.Unmarshal(buf.Bytes(), &requestJSON)
	if err != nil {
		h.errorJSON(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.service.SendOrderEmail(r.Context(), requestJSON.OrderID, requestJSON.EmailType)
	if err != nil {
		switch err {
		case service.ErrInsufficientData:
			h.errorJSON(w, http.StatusBadRequest, "order_id is required", "")
		case service.ErrOrderNotFound:
			h.errorJSON(w, http.StatusNotFound, "order not found", "")
		default:
			h.serverError(w, "failed to process email", err)
		}
		return
	}

	responseJSON, err := json.Marshal(SendOrderEmailJSONResponse{
		Success: true,
		Message: result.Message,
		OrderID: requestJSON.OrderID,
		Preview: result.Preview,
	})
	if err != nil {
		h.serverError(w, "failed to process email", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(responseJSON)
}

type errorJSONResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *handler) errorJSON(w http.ResponseWriter, status int, msg string, details string) {
	responseJSON, _ := json.Marshal(errorJSONResponse{Error: msg, Details: details})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(responseJSON)
}

// serverError hides upstream detail from the client unless debug mode
// is on; the original error always goes to the log.
func (h *handler) serverError(w http.ResponseWriter, msg string, err error) {
	h.zaplog.Error(msg, zap.Error(err))

	details := ""
	if h.cfg.Debug {
		details = err.Error()
	}
	h.errorJSON(w, http.StatusInternalServerError, msg, details)
}
