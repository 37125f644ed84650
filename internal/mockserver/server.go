// Package mockserver is a local stand-in for the Northwind OData service. It
// understands the startswith filters the fetcher sends plus $top, which is
// enough to drive the autocomplete offline.
package mockserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/unkn0wn-root/odatacomplete/internal/customer"
	"github.com/unkn0wn-root/odatacomplete/internal/odata"
)

type odataError struct {
	Error odataErrorBody `json:"error"`
}

type odataErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Option func(*Server)

// WithLatency delays every collection response, which makes superseded
// requests visible when typing quickly.
func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.latency = d }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

type Server struct {
	customers []customer.Customer
	latency   time.Duration
	logger    *log.Logger
}

func New(customers []customer.Customer, opts ...Option) *Server {
	s := &Server{
		customers: customers,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Router serves /health and /{entitySet}; only Customers has data.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/{entitySet}", s.handleCollection).Methods(http.MethodGet)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path,
			"filter", r.URL.Query().Get("$filter"), "took", time.Since(start))
	})
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	entitySet := mux.Vars(r)["entitySet"]
	if entitySet != odata.DefaultEntitySet {
		writeError(w, http.StatusNotFound, "Resource not found for the segment '"+entitySet+"'.")
		return
	}

	q := r.URL.Query()
	if format := q.Get("$format"); format != "" && !strings.EqualFold(format, "json") {
		writeError(w, http.StatusNotAcceptable, "Unsupported $format '"+format+"'.")
		return
	}

	matches := s.customers
	if expr := strings.TrimSpace(q.Get("$filter")); expr != "" {
		f, err := odata.ParseFilter(expr)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		matches, err = Match(s.customers, f)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if raw := q.Get("$top"); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil || top < 0 {
			writeError(w, http.StatusBadRequest, "Invalid $top '"+raw+"'.")
			return
		}
		matches = customer.Take(matches, top)
	}

	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-r.Context().Done():
			s.logger.Debug("client went away", "filter", q.Get("$filter"))
			return
		}
	}
	writeJSON(w, http.StatusOK, customer.Envelope[customer.Customer]{Value: matches})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; odata.metadata=minimal")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, odataError{Error: odataErrorBody{Message: message}})
}
