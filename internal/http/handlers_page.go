package http

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// pageData feeds templates/index.html.
type pageData struct {
	Theme      core.Theme
	Filter     string
	Categories core.Categories
	Summary    core.Summary
	BankSet    bool
	Slices     []chartSlice
	ChartStyle template.CSS
	Edit       *core.Transaction
	Form       core.Draft
	FormAmount string
	Today      string
	Error      string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := s.buildPage(r, categoryFilter(r))
	if raw := r.URL.Query().Get("edit"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			if tx, ok := s.svc.Ledger().Get(id); ok {
				data.Edit = &tx
				data.Form = tx.Draft()
				data.FormAmount = tx.Amount.String()
			}
		}
	}
	s.renderPage(w, r, http.StatusOK, data)
}

func (s *Server) handleFormCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseForm(w, r)
	if !ok {
		return
	}
	filter := p.Get("filter")
	d, err := core.ParseDraft(p.Get("date"), p.Get("desc"), p.Get("amount"), p.Get("category"))
	if err == nil {
		_, err = s.svc.AddTransaction(r.Context(), d)
	}
	if err != nil {
		s.logServiceError(r, "Failed to add transaction", err, log.OpCreate)
		s.renderFormError(w, r, filter, d, p.Get("amount"), nil, err)
		return
	}
	s.invalidate()
	redirectBack(w, r, filter)
}

func (s *Server) handleFormUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		HTMLErrorResponse(http.StatusBadRequest, err.Error()).Write(w)
		return
	}
	p, ok := s.parseForm(w, r)
	if !ok {
		return
	}
	filter := p.Get("filter")
	d, err := core.ParseDraft(p.Get("date"), p.Get("desc"), p.Get("amount"), p.Get("category"))
	if err == nil {
		_, err = s.svc.UpdateTransaction(r.Context(), id, d)
	}
	if err != nil {
		s.logServiceError(r, "Failed to update transaction", err, log.OpUpdate)
		var edit *core.Transaction
		if tx, ok := s.svc.Ledger().Get(id); ok {
			edit = &tx
		}
		s.renderFormError(w, r, filter, d, p.Get("amount"), edit, err)
		return
	}
	s.invalidate()
	redirectBack(w, r, filter)
}

func (s *Server) handleFormDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		HTMLErrorResponse(http.StatusBadRequest, err.Error()).Write(w)
		return
	}
	p, ok := s.parseForm(w, r)
	if !ok {
		return
	}
	removed, err := s.svc.DeleteTransaction(r.Context(), id)
	if err != nil {
		s.logServiceError(r, "Failed to delete transaction", err, log.OpDelete)
		s.renderFormError(w, r, p.Get("filter"), core.Draft{}, "", nil, err)
		return
	}
	if removed {
		s.invalidate()
	}
	redirectBack(w, r, p.Get("filter"))
}

func (s *Server) handleFormBankAmount(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseForm(w, r)
	if !ok {
		return
	}
	if _, err := s.svc.SetBankAmount(r.Context(), p.Get("amount")); err != nil {
		s.logServiceError(r, "Failed to set bank amount", err, log.OpSettings)
		s.renderFormError(w, r, p.Get("filter"), core.Draft{}, "", nil, err)
		return
	}
	s.invalidate()
	redirectBack(w, r, p.Get("filter"))
}

func (s *Server) handleFormToggleTheme(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseForm(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	current, err := s.svc.Ledger().Theme(ctx)
	if err == nil {
		_, err = s.svc.SetTheme(ctx, string(current.Toggle()))
	}
	if err != nil {
		s.logServiceError(r, "Failed to toggle theme", err, log.OpSettings)
		HTMLErrorResponse(statusFor(err), "Could not change theme").Write(w)
		return
	}
	redirectBack(w, r, p.Get("filter"))
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		HTMLErrorResponse(http.StatusBadRequest, "Invalid request format").Write(w)
		return nil, false
	}
	return p, true
}

func (s *Server) buildPage(r *http.Request, filter string) pageData {
	ctx := r.Context()
	l := s.svc.Ledger()

	theme, err := l.Theme(ctx)
	if err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Failed to read theme, using default", log.FieldError, err.Error())
		theme = core.ThemeLight
	}
	_, bankSet := l.BankAmount()
	slices, style := chartSlices(s.breakdown(ctx))

	return pageData{
		Theme:      theme,
		Filter:     filter,
		Categories: l.Categories(),
		Summary:    s.summary(ctx, filter),
		BankSet:    bankSet,
		Slices:     slices,
		ChartStyle: style,
		Today:      time.Now().Format("2006-01-02"),
	}
}

// renderFormError re-renders the page with the submitted values and the
// error message so the user can correct the form.
func (s *Server) renderFormError(w http.ResponseWriter, r *http.Request, filter string, d core.Draft, amount string, edit *core.Transaction, err error) {
	if core.IsAllFilter(filter) {
		filter = core.FilterAll
	}
	data := s.buildPage(r, filter)
	data.Edit = edit
	data.Form = d
	data.FormAmount = amount

	code := statusFor(err)
	data.Error = "Something went wrong, please retry"
	if code != http.StatusInternalServerError {
		data.Error = err.Error()
	}
	s.renderPage(w, r, code, data)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, code int, data pageData) {
	if s.templates == nil {
		HTMLErrorResponse(http.StatusInternalServerError, "Templates unavailable").Write(w)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		log.FromContext(r.Context()).LogError(r.Context(), "Failed to render page", err, log.OpRead, log.NewFields())
		HTMLErrorResponse(http.StatusInternalServerError, "Failed to render page").Write(w)
		return
	}
	NewResponse().Status(code).BodyHTML(buf.String()).Write(w)
}
