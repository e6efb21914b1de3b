package web

import (
	"context"

	"gitlab.com/yelinaung/expense-report/internal/models"
	"gitlab.com/yelinaung/expense-report/internal/report"
	"gitlab.com/yelinaung/expense-report/internal/service"
)

// Page identifiers used to highlight navigation.
const (
	pageEntries = "entries"
	pageReports = "reports"
)

// layout is the data shared by every page: the header, navigation and,
// for admins, the admin panel.
type layout struct {
	Session     models.Session
	Page        string
	Roles       []models.Role
	Users       []models.User
	AdminNotice string
	AdminError  string
}

func (s *Server) layout(ctx context.Context, sess models.Session, page string) layout {
	l := layout{Session: sess, Page: page, Roles: models.Roles}
	if !sess.IsAdmin() {
		return l
	}

	users, err := s.admin.ListUsers(ctx, sess)
	if err != nil {
		l.AdminError = err.Error()
		return l
	}
	l.Users = users
	return l
}

type loginView struct {
	layout
	Username string
	Error    string
}

type entriesView struct {
	layout
	Types   []models.ExpenseType
	Form    service.EntryInput
	Notice  string
	Error   string
	Entries []models.Entry
	// LoadError is set when the admin entries table could not be loaded.
	LoadError string
}

type modeOption struct {
	Value string
	Label string
}

var modeOptions = []modeOption{
	{report.ModeOverall, "Overall Summary"},
	{report.ModeLedger, "Employee Ledger"},
	{report.ModeHeadWise, "Expense Head-wise Summary"},
}

type reportsView struct {
	layout
	Mode     string
	Modes    []modeOption
	NoData   bool
	Summary  report.Summary
	Ledger   report.EmployeeLedger
	HeadWise []report.HeadTotal
}

type errorView struct {
	layout
	Status  int
	Title   string
	Message string
}
