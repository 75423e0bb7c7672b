package http

import (
	"errors"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type bankAmountResponse struct {
	Amount core.Money `json:"amount"`
	Set    bool       `json:"set"`
}

type themeResponse struct {
	Theme core.Theme `json:"theme"`
}

// requestError answers a failed parse: malformed bodies are 400, field
// errors go through the service mapping.
func requestError(err error) *ResponseBuilder {
	if errors.Is(err, core.ErrValidation) {
		return ServiceError(err)
	}
	if errors.Is(err, errBodyTooLarge) {
		return ErrorResponse(http.StatusRequestEntityTooLarge, err.Error())
	}
	return BadRequestError(err.Error())
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	sum := s.summary(r.Context(), categoryFilter(r))
	NewResponse().JSON(sum.Transactions).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := draftFromRequest(r)
	if err != nil {
		requestError(err).Write(w)
		return
	}
	tx, err := s.svc.AddTransaction(ctx, d)
	if err != nil {
		s.logServiceError(r, "Failed to add transaction", err, log.OpCreate)
		ServiceError(err).Write(w)
		return
	}
	s.invalidate()
	NewResponse().Status(http.StatusCreated).JSON(tx).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	tx, ok := s.svc.Ledger().Get(id)
	if !ok {
		NotFoundError("transaction not found").Write(w)
		return
	}
	NewResponse().JSON(tx).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	d, err := draftFromRequest(r)
	if err != nil {
		requestError(err).Write(w)
		return
	}
	tx, err := s.svc.UpdateTransaction(ctx, id, d)
	if err != nil {
		s.logServiceError(r, "Failed to update transaction", err, log.OpUpdate)
		ServiceError(err).Write(w)
		return
	}
	s.invalidate()
	NewResponse().JSON(tx).Write(w)
}

// handleDeleteTransaction answers 204 whether or not id existed.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	removed, err := s.svc.DeleteTransaction(r.Context(), id)
	if err != nil {
		s.logServiceError(r, "Failed to delete transaction", err, log.OpDelete)
		ServiceError(err).Write(w)
		return
	}
	if removed {
		s.invalidate()
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(s.summary(r.Context(), categoryFilter(r))).Write(w)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(s.breakdown(r.Context())).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(s.svc.Ledger().Categories()).Write(w)
}

func (s *Server) handleGetBankAmount(w http.ResponseWriter, r *http.Request) {
	amount, set := s.svc.Ledger().BankAmount()
	NewResponse().JSON(bankAmountResponse{Amount: amount, Set: set}).Write(w)
}

func (s *Server) handleSetBankAmount(w http.ResponseWriter, r *http.Request) {
	raw, err := valueFromRequest(r, "amount")
	if err != nil {
		requestError(err).Write(w)
		return
	}
	amount, err := s.svc.SetBankAmount(r.Context(), raw)
	if err != nil {
		s.logServiceError(r, "Failed to set bank amount", err, log.OpSettings)
		ServiceError(err).Write(w)
		return
	}
	s.invalidate()
	NewResponse().JSON(bankAmountResponse{Amount: amount, Set: true}).Write(w)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := s.svc.Ledger().Theme(r.Context())
	if err != nil {
		s.logServiceError(r, "Failed to read theme", err, log.OpRead)
		ServiceError(err).Write(w)
		return
	}
	NewResponse().JSON(themeResponse{Theme: theme}).Write(w)
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	raw, err := valueFromRequest(r, "theme")
	if err != nil {
		requestError(err).Write(w)
		return
	}
	theme, err := s.svc.SetTheme(r.Context(), raw)
	if err != nil {
		s.logServiceError(r, "Failed to set theme", err, log.OpSettings)
		ServiceError(err).Write(w)
		return
	}
	NewResponse().JSON(themeResponse{Theme: theme}).Write(w)
}

// logServiceError logs failures the client caused at debug level and
// everything else as an error.
func (s *Server) logServiceError(r *http.Request, msg string, err error, op string) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	if statusFor(err) != http.StatusInternalServerError {
		logger.DebugContext(ctx, msg, log.FieldError, err.Error(), log.FieldOperation, op)
		return
	}
	logger.LogError(ctx, msg, err, op, log.NewFields())
}
