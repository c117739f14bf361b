package http

import (
	"net/http"
	"strings"
	"time"

	"admitdesk/internal/http/handlers"
	"admitdesk/internal/http/metrics"
	httpmw "admitdesk/internal/http/middleware"
)

type RouterDependencies struct {
	UserHandler         *handlers.UserHandler
	ApplicationHandler  *handlers.ApplicationHandler
	DepartmentHandler   *handlers.DepartmentHandler
	NotificationHandler *handlers.NotificationHandler
	PaymentHandler      *handlers.PaymentHandler
	PDFHandler          *handlers.PDFHandler
	MetricsHandler      *handlers.MetricsHandler
	AuthMiddleware      *httpmw.AuthMiddleware
	Metrics             *metrics.Collector
	RequestTimeout      time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging, httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, httpmw.Metrics(r.deps.Metrics), httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.MetricsHandler.Get(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/token":
			r.deps.UserHandler.Token(w, req)
			return
		}

		if strings.HasPrefix(path, "/users") || strings.HasPrefix(path, "/applications") || strings.HasPrefix(path, "/departments") || strings.HasPrefix(path, "/notifications") || strings.HasPrefix(path, "/payment") || strings.HasPrefix(path, "/pdf") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	admin := func(h http.HandlerFunc) http.Handler {
		return httpmw.RequireAdmin(h)
	}

	switch {
	case req.Method == http.MethodGet && path == "/users/me":
		r.deps.UserHandler.Me(w, req)
		return
	case req.Method == http.MethodGet && path == "/users":
		r.deps.UserHandler.Get(w, req)
		return
	case req.Method == http.MethodPatch && path == "/users/role":
		admin(r.deps.UserHandler.SetRole).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/applications":
		r.deps.ApplicationHandler.Submit(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications":
		r.deps.ApplicationHandler.List(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications/stats":
		admin(r.deps.ApplicationHandler.Stats).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/applications/by-number/"):
		r.deps.ApplicationHandler.GetByNumber(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/applications/"):
		r.deps.ApplicationHandler.Get(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/applications/"):
		r.deps.ApplicationHandler.Update(w, req)
		return
	case req.Method == http.MethodGet && path == "/departments":
		r.deps.DepartmentHandler.List(w, req)
		return
	case req.Method == http.MethodPost && path == "/departments":
		admin(r.deps.DepartmentHandler.Create).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/departments/"):
		r.deps.DepartmentHandler.Get(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/departments/"):
		admin(r.deps.DepartmentHandler.Update).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/departments/"):
		admin(r.deps.DepartmentHandler.Delete).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/notifications":
		admin(r.deps.NotificationHandler.Create).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/notifications/dispatch":
		admin(r.deps.NotificationHandler.Dispatch).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/notifications":
		r.deps.NotificationHandler.List(w, req)
		return
	case req.Method == http.MethodPost && path == "/payment/create-order":
		r.deps.PaymentHandler.CreateOrder(w, req)
		return
	case req.Method == http.MethodPost && path == "/payment/verify":
		r.deps.PaymentHandler.Verify(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/pdf/application/"):
		r.deps.PDFHandler.ApplicationForm(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/pdf/hall-ticket/"):
		r.deps.PDFHandler.HallTicket(w, req)
		return
	}

	http.NotFound(w, req)
}
