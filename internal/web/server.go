// Package web serves the expense report user interface over HTTP.
package web

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"gitlab.com/yelinaung/expense-report/internal/models"
	"gitlab.com/yelinaung/expense-report/internal/service"
)

// Authenticator logs sessions in and out.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (models.Session, bool, error)
	Logout() models.Session
}

// UserAdmin manages accounts from the admin panel.
type UserAdmin interface {
	AddUser(ctx context.Context, actor models.Session, username, password string, role models.Role) (*models.User, error)
	ListUsers(ctx context.Context, actor models.Session) ([]models.User, error)
}

// EntryRecorder records entries and exposes them for the admin views.
type EntryRecorder interface {
	Submit(ctx context.Context, actor models.Session, in service.EntryInput) (*models.Entry, error)
	List(ctx context.Context, actor models.Session) ([]models.Entry, error)
	Report(ctx context.Context, actor models.Session) ([]models.Entry, error)
}

// Options configures a Server.
type Options struct {
	Addr         string
	ServiceName  string
	HashKey      []byte
	BlockKey     []byte
	SecureCookie bool
}

// Server is the HTTP front end.
type Server struct {
	http.Server
	auth     Authenticator
	admin    UserAdmin
	entries  EntryRecorder
	sessions *SessionCodec
	pages    map[string]*template.Template
	now      func() time.Time
}

// NewServer parses the templates and wires every route.
func NewServer(opts Options, auth Authenticator, admin UserAdmin, entries EntryRecorder) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		auth:     auth,
		admin:    admin,
		entries:  entries,
		sessions: NewSessionCodec(opts.HashKey, opts.BlockKey, opts.SecureCookie),
		pages:    pages,
		now:      time.Now,
	}

	mux := http.NewServeMux()

	static, err := fs.Sub(StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to mount static assets: %w", err)
	}
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(static)))
	mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	}))

	mux.HandleFunc("GET /healthz", handleHealth)

	mux.HandleFunc("GET /login", s.handleLoginForm)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)

	mux.HandleFunc("GET /{$}", s.requireLogin(s.handleIndex))
	mux.HandleFunc("GET /entries", s.requireLogin(s.handleEntries))
	mux.HandleFunc("POST /entries", s.requireLogin(s.handleSubmitEntry))

	mux.HandleFunc("GET /reports", s.requireAdmin(s.handleReports))
	mux.HandleFunc("GET /reports/charts/trend.png", s.requireAdmin(s.handleTrendChart))
	mux.HandleFunc("GET /reports/charts/headwise.png", s.requireAdmin(s.handleHeadWiseChart))
	mux.HandleFunc("GET /reports/entries.csv", s.requireAdmin(s.handleEntriesCSV))

	mux.HandleFunc("POST /admin/users", s.requireAdmin(s.handleAddUser))

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "expense-report"
	}

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           otelhttp.NewHandler(withLogging(withSecurityHeaders(mux)), serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
