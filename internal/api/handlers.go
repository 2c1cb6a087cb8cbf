package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yomanFX/vikula2/internal/court"
	"github.com/yomanFX/vikula2/internal/domain"
	"github.com/yomanFX/vikula2/internal/transition"
)

// ─── Activities ─────────────────────────────────────────────────────────────

// handleListActivities returns the full ledger, newest first.
// GET /api/activities
func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	acts, err := s.store.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"activities": acts,
	})
}

type createActivityRequest struct {
	Kind             domain.Kind     `json:"kind"`
	Subject          domain.Identity `json:"subject"`
	Category         string          `json:"category"`
	CategoryIcon     string          `json:"category_icon"`
	Description      string          `json:"description"`
	Compensation     string          `json:"compensation"`
	CompensationIcon string          `json:"compensation_icon"`
	Points           int             `json:"points"`
	EvidenceImage    string          `json:"evidence_image"`
}

// handleCreateActivity logs a new complaint or good deed.
// POST /api/activities
func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !req.Subject.Valid() {
		writeError(w, http.StatusBadRequest, "subject must be one of the two members")
		return
	}

	var a domain.Activity
	switch req.Kind {
	case domain.KindComplaint:
		if req.Points == 0 {
			writeError(w, http.StatusBadRequest, "a complaint needs a penalty")
			return
		}
		a = domain.NewComplaint(req.Subject, req.Category, req.CategoryIcon,
			req.Description, req.Compensation, req.CompensationIcon, req.Points)
	case domain.KindGoodDeed:
		a = domain.NewGoodDeed(req.Subject, req.Category, req.CategoryIcon, req.Description)
	default:
		writeError(w, http.StatusBadRequest, "kind must be COMPLAINT or GOOD_DEED")
		return
	}
	a.EvidenceImage = req.EvidenceImage

	if err := s.store.Create(r.Context(), a); err != nil {
		writeDomainError(w, err)
		return
	}
	s.announce(r.Context())
	writeJSON(w, http.StatusCreated, a)
}

type transitionRequest struct {
	Target domain.Status   `json:"target"`
	Actor  domain.Identity `json:"actor"`
	Reward int             `json:"reward,omitempty"`
}

// handleTransition moves an activity through its lifecycle.
// POST /api/activities/{id}/transition
func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var opts []transition.RequestOption
	if req.Reward != 0 {
		opts = append(opts, transition.WithReward(req.Reward))
	}
	a, err := s.transitions.Request(r.Context(), id, req.Target, req.Actor, opts...)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.announce(r.Context())
	writeJSON(w, http.StatusOK, a)
}

// ─── Court ──────────────────────────────────────────────────────────────────

type argumentRequest struct {
	Role court.Role `json:"role"`
	Text string     `json:"text"`
}

// handleSubmitArgument files one side's argument on a case in court.
// POST /api/activities/{id}/arguments
func (s *Server) handleSubmitArgument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req argumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	a, err := s.court.SubmitArgument(r.Context(), id, req.Role, req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.announce(r.Context())
	writeJSON(w, http.StatusOK, a)
}

// handleAdjudicate sends a fully-argued case to the oracle.
// POST /api/activities/{id}/adjudicate
func (s *Server) handleAdjudicate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := s.court.Adjudicate(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.announce(r.Context())
	writeJSON(w, http.StatusOK, a)
}

// ─── Scores & Shop ──────────────────────────────────────────────────────────

// handleScores returns both members' derived scores and tiers.
// GET /api/scores
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	cards, err := s.store.Scores(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// handleShop returns the cosmetic catalog.
// GET /api/shop
func (s *Server) handleShop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": domain.ShopItems,
	})
}

type purchaseRequest struct {
	Buyer  domain.Identity `json:"buyer"`
	ItemID string          `json:"item_id"`
}

// handlePurchase books a shop purchase after an affordability check.
// POST /api/shop/purchase
func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !req.Buyer.Valid() {
		writeError(w, http.StatusBadRequest, "buyer must be one of the two members")
		return
	}
	item, ok := domain.FindShopItem(req.ItemID)
	if !ok {
		writeDomainError(w, domain.ErrUnknownShopItem)
		return
	}

	cards, err := s.store.Scores(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if cards[req.Buyer].Score < item.Price {
		writeDomainError(w, domain.ErrInsufficientScore)
		return
	}

	a := domain.NewPurchase(req.Buyer, item)
	if err := s.store.Create(r.Context(), a); err != nil {
		writeDomainError(w, err)
		return
	}
	s.announce(r.Context())
	writeJSON(w, http.StatusCreated, a)
}

// ─── Error mapping ──────────────────────────────────────────────────────────

// writeDomainError maps domain sentinels onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownActivity), errors.Is(err, domain.ErrUnknownShopItem):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrIllegalTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrIncompleteArguments),
		errors.Is(err, domain.ErrRewardRequired),
		errors.Is(err, domain.ErrSelfApproval),
		errors.Is(err, domain.ErrInsufficientScore):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrPersistence):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
