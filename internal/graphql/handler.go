package graphql

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Handler serves GraphQL requests over HTTP.
type Handler struct {
	executor *Executor
	logger   *slog.Logger
}

// NewHandler creates a handler running requests on executor.
func NewHandler(executor *Executor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		executor: executor,
		logger:   logger,
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var resp *Response
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("GraphQL handler panicked",
				"panic", rec,
				"request_id", middleware.GetReqID(r.Context()))
			resp = &Response{status: http.StatusInternalServerError}
			resp.Errors = asGQLErrors(fmt.Errorf("internal server error"))
			h.write(w, r, resp)
		}
	}()

	req, err := readRequest(w, r)
	if err != nil {
		h.logger.Debug("Unreadable GraphQL request", "error", err)
		resp = ErrorResponse(err)
	} else {
		resp = h.executor.Execute(r.Context(), req)
	}

	h.write(w, r, resp)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, resp *Response) {
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		resp.WithExtension("requestId", reqID)
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.HTTPStatus() == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", "GET, POST")
	}
	w.WriteHeader(resp.HTTPStatus())

	if _, err := resp.WriteTo(w); err != nil {
		h.logger.Error("Failed to write GraphQL response", "error", err)
	}
}
