package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"gitlab.com/yelinaung/expense-report/internal/logger"
	"gitlab.com/yelinaung/expense-report/internal/models"
	"gitlab.com/yelinaung/expense-report/internal/report"
	"gitlab.com/yelinaung/expense-report/internal/service"
)

// sessionHandler is a handler that receives the caller's session explicitly.
type sessionHandler func(w http.ResponseWriter, r *http.Request, sess models.Session)

// requireLogin redirects anonymous clients to the login page.
func (s *Server) requireLogin(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessions.Read(r)
		if !sess.LoggedIn {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r, sess)
	}
}

// requireAdmin is requireLogin plus a 403 for non-admin sessions.
func (s *Server) requireAdmin(next sessionHandler) http.HandlerFunc {
	return s.requireLogin(func(w http.ResponseWriter, r *http.Request, sess models.Session) {
		if !sess.IsAdmin() {
			logger.Log.Warn().
				Str("user", logger.HashUsername(sess.Username)).
				Str("path", r.URL.Path).
				Msg("Admin route denied")
			s.renderError(w, r, sess, http.StatusForbidden, "Access denied: this page is only available to administrators.")
			return
		}
		next(w, r, sess)
	})
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	kind, _ := service.KindOf(err)
	switch kind {
	case service.KindValidation:
		return http.StatusUnprocessableEntity
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindPersistence:
		if errors.Is(err, models.ErrDuplicateUsername) {
			return http.StatusConflict
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if sess := s.sessions.Read(r); sess.LoggedIn {
		http.Redirect(w, r, "/entries", http.StatusFound)
		return
	}
	s.render(w, http.StatusOK, "login.html", loginView{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, "login.html", loginView{Error: "Invalid form submission"})
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	sess, ok, err := s.auth.Login(r.Context(), username, password)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Login failed")
		s.render(w, statusFor(err), "login.html", loginView{Username: username, Error: err.Error()})
		return
	}
	if !ok {
		s.render(w, http.StatusUnauthorized, "login.html", loginView{Username: username, Error: "Invalid username or password"})
		return
	}

	if err := s.sessions.Write(w, sess); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to encode session cookie")
		s.render(w, http.StatusInternalServerError, "login.html", loginView{Error: "An error occurred. Please try again."})
		return
	}

	http.Redirect(w, r, "/entries", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Write(w, s.auth.Logout()); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to reset session cookie")
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, _ models.Session) {
	http.Redirect(w, r, "/entries", http.StatusFound)
}

func (s *Server) entriesView(r *http.Request, sess models.Session) entriesView {
	view := entriesView{
		layout: s.layout(r.Context(), sess, pageEntries),
		Types:  models.ExpenseTypes,
		Form:   service.EntryInput{Date: s.now().Format(models.DateLayout), ExpenseType: string(models.ExpenseTA)},
	}
	if !sess.IsAdmin() {
		return view
	}

	entries, err := s.entries.List(r.Context(), sess)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to load entries")
		view.LoadError = err.Error()
		return view
	}
	view.Entries = entries
	return view
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request, sess models.Session) {
	view := s.entriesView(r, sess)

	q := r.URL.Query()
	if q.Has("saved") {
		view.Notice = "Entry submitted successfully!"
	}
	if added := q.Get("added"); added != "" {
		view.AdminNotice = fmt.Sprintf("User %s added successfully!", added)
	}

	s.render(w, http.StatusOK, "entries.html", view)
}

func (s *Server) handleSubmitEntry(w http.ResponseWriter, r *http.Request, sess models.Session) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, sess, http.StatusBadRequest, "Invalid form submission")
		return
	}

	in := service.EntryInput{
		Date:        r.PostFormValue("date"),
		Employee:    r.PostFormValue("employee"),
		ExpenseType: r.PostFormValue("expense_type"),
		Amount:      r.PostFormValue("amount"),
		Description: r.PostFormValue("description"),
	}

	if _, err := s.entries.Submit(r.Context(), sess, in); err != nil {
		view := s.entriesView(r, sess)
		view.Form = in
		view.Error = err.Error()
		s.render(w, statusFor(err), "entries.html", view)
		return
	}

	http.Redirect(w, r, "/entries?saved=1", http.StatusSeeOther)
}

func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request, sess models.Session) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, sess, http.StatusBadRequest, "Invalid form submission")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	role := models.Role(r.PostFormValue("role"))

	user, err := s.admin.AddUser(r.Context(), sess, username, password, role)
	if err != nil {
		view := s.entriesView(r, sess)
		view.AdminError = err.Error()
		s.render(w, statusFor(err), "entries.html", view)
		return
	}

	http.Redirect(w, r, "/entries?added="+url.QueryEscape(user.Username), http.StatusSeeOther)
}

// ledgerSelection returns the employees picked on the ledger form. It is nil
// (every employee) until the form has been submitted at least once, so that
// unticking every box yields an empty selection rather than all employees.
func ledgerSelection(r *http.Request) []string {
	q := r.URL.Query()
	if !q.Has("employees_submitted") {
		return nil
	}
	selected := q["employee"]
	if selected == nil {
		selected = []string{}
	}
	return selected
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request, sess models.Session) {
	mode := r.URL.Query().Get("report")
	if mode == "" {
		mode = report.ModeOverall
	}
	if !report.ValidMode(mode) {
		s.renderError(w, r, sess, http.StatusBadRequest, fmt.Sprintf("Unknown report type %q.", mode))
		return
	}

	entries, err := s.entries.Report(r.Context(), sess)
	if err != nil {
		s.renderError(w, r, sess, statusFor(err), err.Error())
		return
	}

	view := reportsView{
		layout: s.layout(r.Context(), sess, pageReports),
		Mode:   mode,
		Modes:  modeOptions,
		NoData: len(entries) == 0,
	}

	switch mode {
	case report.ModeOverall:
		view.Summary = report.Overall(entries)
	case report.ModeLedger:
		view.Ledger = report.Ledger(entries, ledgerSelection(r))
	case report.ModeHeadWise:
		view.HeadWise = report.HeadWise(entries)
	}

	s.render(w, http.StatusOK, "reports.html", view)
}

func (s *Server) handleTrendChart(w http.ResponseWriter, r *http.Request, sess models.Session) {
	s.serveChart(w, r, sess, func(entries []models.Entry) ([]byte, error) {
		return report.TrendChart(report.Overall(entries).Trend)
	})
}

func (s *Server) handleHeadWiseChart(w http.ResponseWriter, r *http.Request, sess models.Session) {
	s.serveChart(w, r, sess, func(entries []models.Entry) ([]byte, error) {
		return report.HeadWiseChart(report.HeadWise(entries))
	})
}

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, sess models.Session, draw func([]models.Entry) ([]byte, error)) {
	entries, err := s.entries.Report(r.Context(), sess)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	png, err := draw(entries)
	if errors.Is(err, report.ErrNoData) {
		http.Error(w, "No data available for reports.", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to render chart")
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (s *Server) handleEntriesCSV(w http.ResponseWriter, r *http.Request, sess models.Session) {
	entries, err := s.entries.List(r.Context(), sess)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	filename := fmt.Sprintf("expenses_%s.csv", s.now().Format(models.DateLayout))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := report.WriteCSV(w, entries); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to write CSV export")
	}
}
