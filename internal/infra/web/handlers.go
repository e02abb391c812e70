package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"memorial-platform/internal/domain"
	"memorial-platform/internal/domain/model"
	"memorial-platform/internal/identity"
	red "memorial-platform/internal/infra/redis"
	"memorial-platform/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps domain sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrTransientProofRef),
		errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// limitJSON renders a Limit as a finite number or the string "unlimited",
// keeping the unbounded sentinel distinguishable on the wire.
func limitJSON(l model.Limit) interface{} {
	if l.Unlimited {
		return "unlimited"
	}
	return l.N
}

type planResponse struct {
	Key           model.PlanKey `json:"key"`
	Features      []string      `json:"features"`
	PhotoLimit    interface{}   `json:"photo_limit"`
	MemorialLimit interface{}   `json:"memorial_limit"`
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	entries := model.ListCatalog()
	out := make([]planResponse, 0, len(entries))
	for _, e := range entries {
		features := make([]string, 0, len(e.Features))
		for _, f := range model.AllFeatures {
			if e.Features[f] {
				features = append(features, string(f))
			}
		}
		out = append(out, planResponse{
			Key:           e.Key,
			Features:      features,
			PhotoLimit:    limitJSON(e.PhotoLimit),
			MemorialLimit: limitJSON(e.MemorialLimit),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMyEntitlements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := PrincipalFrom(ctx)

	set, err := s.entUC.PlanSetFor(ctx, p.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	features := make(map[string]bool, len(model.AllFeatures))
	for _, f := range model.AllFeatures {
		features[string(f)] = set.CanAccess(f)
	}
	plans := make([]string, 0, len(set))
	for _, k := range set.Keys() {
		plans = append(plans, string(k))
	}

	writeJSON(w, http.StatusOK, struct {
		Plans         []string        `json:"plans"`
		Paid          bool            `json:"paid"`
		Features      map[string]bool `json:"features"`
		PhotoLimit    interface{}     `json:"photo_limit"`
		MemorialLimit interface{}     `json:"memorial_limit"`
	}{
		Plans:         plans,
		Paid:          set.IsPaid(),
		Features:      features,
		PhotoLimit:    limitJSON(set.PhotoLimit()),
		MemorialLimit: limitJSON(set.MemorialLimit()),
	})
}

func (s *Server) handleMySubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subs, err := s.subUC.ListByPrincipal(ctx, PrincipalFrom(ctx).ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if subs == nil {
		subs = []*model.Subscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (s *Server) handleMyTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	txs, err := s.txUC.ListByPrincipal(ctx, PrincipalFrom(ctx).ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if txs == nil {
		txs = []*model.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

type submitTransactionRequest struct {
	Plan        string `json:"plan"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Method      string `json:"method"`
	ReferenceNo string `json:"reference_no"`
	ProofRef    string `json:"proof_ref"`
}

func (s *Server) handleSubmitTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := PrincipalFrom(ctx)

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, red.SubmitKey(p.ID), s.submitLimit, s.submitWindow)
		if err != nil {
			s.log.Warn().Err(err).Msg("rate limiter unavailable")
		} else if !ok {
			writeError(w, http.StatusTooManyRequests, "too many payment claims, try again later")
			return
		}
	}

	var req submitTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := s.txUC.Submit(ctx, usecase.SubmitInput{
		PrincipalID: p.ID,
		Plan:        model.PlanKey(req.Plan),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Method:      model.PaymentMethod(req.Method),
		ReferenceNo: req.ReferenceNo,
		ProofRef:    req.ProofRef,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := PrincipalFrom(ctx)

	t, err := s.txUC.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// Owners see their own claims; everyone else needs the admin role.
	if t.PrincipalID != p.ID && !identity.IsAdmin(p) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleReviewQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := model.TransactionStatus(r.URL.Query().Get("status"))
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	txs, err := s.txUC.ReviewQueue(ctx, status, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if txs == nil {
		txs = []*model.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

type reviewRequest struct {
	Verdict string `json:"verdict"` // completed | failed
}

func (s *Server) handleReviewTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := s.txUC.Review(ctx, chi.URLParam(r, "id"), model.TransactionStatus(req.Verdict))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sub, err := s.subUC.Cancel(ctx, PrincipalFrom(ctx).ID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
