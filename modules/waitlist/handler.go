package waitlist

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/waitlist/pkg/logger"
	"github.com/dmitrymomot/waitlist/pkg/validator"
)

const maxFormBytes = 64 << 10

// Response is the JSON body written by the relay handler.
type Response struct {
	Status       string              `json:"status"`
	Message      string              `json:"message"`
	SubmissionID string              `json:"submission_id,omitempty"`
	Errors       map[string][]string `json:"errors,omitempty"`
}

// Handler relays posted waitlist forms through a Submitter. Every request
// runs in a fresh Form, so the state machine tracks one browser submission.
type Handler struct {
	submitter Submitter
	limits    Limits
	logger    *slog.Logger
	now       func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithNow replaces the clock used to timestamp records.
func WithNow(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

func NewHandler(submitter Submitter, limits Limits, opts ...HandlerOption) *Handler {
	h := &Handler{
		submitter: submitter,
		limits:    limits,
		logger:    logger.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle returns the router serving POST /{userType}.
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()
	r.Post("/{userType}", h.submit)
	return r
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	userType, err := ParseUserType(chi.URLParam(r, "userType"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, Response{Status: "not_found", Message: "Unknown waitlist."})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := parseForm(r); err != nil {
		h.logger.WarnContext(r.Context(), "waitlist form unreadable", logger.Error(err))
		writeJSON(w, http.StatusBadRequest, Response{Status: "bad_request", Message: "The form could not be read."})
		return
	}

	record := NewRecord(userType, Input{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Phone:    r.PostFormValue("phone"),
		Location: r.PostFormValue("location"),
		Message:  r.PostFormValue("message"),
	}, h.now())

	form := NewForm(h.submitter, h.limits, h.logger)
	out, err := form.Submit(r.Context(), record)
	category := Classify(err)

	resp := Response{
		Status:       category.String(),
		Message:      category.Message(),
		SubmissionID: out.SubmissionID,
	}

	switch category {
	case Success:
		resp.Message = userType.Welcome()
	case ValidationError:
		resp.Errors = fieldErrors(validator.ExtractValidationErrors(err))
	case RateLimited:
		if out.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(out.RetryAfter.Seconds()))))
		}
	}

	writeJSON(w, StatusCode(category), resp)
}

// StatusCode maps a Category to the relay's HTTP status.
func StatusCode(c Category) int {
	switch c {
	case Success:
		return http.StatusOK
	case ValidationError:
		return http.StatusUnprocessableEntity
	case RateLimited:
		return http.StatusTooManyRequests
	case Timeout:
		return http.StatusGatewayTimeout
	case NetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err := r.ParseMultipartForm(maxFormBytes)
		if errors.Is(err, http.ErrNotMultipart) {
			return r.ParseForm()
		}
		return err
	}
	return r.ParseForm()
}

func fieldErrors(errs validator.ValidationErrors) map[string][]string {
	if errs.IsEmpty() {
		return nil
	}
	out := make(map[string][]string, len(errs))
	for _, field := range errs.Fields() {
		out[field] = errs.Get(field)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
