package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/ctxutil"
	"github.com/example/agenda/internal/ports/primary"
)

// actorOr returns id, falling back to the actor set by the middleware.
func actorOr(r *http.Request, id string) string {
	if id != "" {
		return id
	}
	return ctxutil.ActorFromContext(r.Context())
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.New(apperr.CodeValidation, "%s must be an integer", key).WithDetail("field", key)
	}
	return v, nil
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req primary.CreateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := s.services.Users.CreateUser(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, user)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.services.Users.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (s *Server) createProposal(w http.ResponseWriter, r *http.Request) {
	var req primary.CreateProposalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.AuthorID = actorOr(r, req.AuthorID)

	proposal, err := s.services.Proposals.CreateProposal(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, proposal)
}

func (s *Server) getProposal(w http.ResponseWriter, r *http.Request) {
	proposal, err := s.services.Proposals.GetProposal(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, proposal)
}

func (s *Server) listProposals(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	proposals, err := s.services.Proposals.ListProposals(r.Context(), primary.ProposalFilters{
		Level:      q.Get("level"),
		Status:     q.Get("status"),
		Department: q.Get("department"),
		FacilityID: q.Get("facilityId"),
		Limit:      limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, proposals)
}

func (s *Server) recordVote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Delta int `json:"delta"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	result, err := s.services.Proposals.RecordVote(r.Context(), primary.RecordVoteRequest{
		ProposalID: mux.Vars(r)["id"],
		Delta:      body.Delta,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (s *Server) escalate(w http.ResponseWriter, r *http.Request) {
	var req primary.EscalateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.ProposalID = mux.Vars(r)["id"]
	req.ActorID = actorOr(r, req.ActorID)

	proposal, err := s.services.Escalation.Escalate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, proposal)
}

func (s *Server) review(w http.ResponseWriter, r *http.Request) {
	var req primary.ReviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.ProposalID = mux.Vars(r)["postId"]
	req.ReviewerID = actorOr(r, req.ReviewerID)

	result, err := s.services.Review.Review(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (s *Server) listPendingReviews(w http.ResponseWriter, r *http.Request) {
	minScore, err := queryInt(r, "minScore")
	if err != nil {
		writeError(w, err)
		return
	}
	proposals, err := s.services.Review.ListPending(r.Context(), primary.PendingReviewFilters{
		MinScore:   minScore,
		Department: r.URL.Query().Get("department"),
		FacilityID: r.URL.Query().Get("facilityId"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, proposals)
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	records, err := s.services.Review.ListReviews(r.Context(), mux.Vars(r)["postId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, records)
}

func (s *Server) listOverdue(w http.ResponseWriter, r *http.Request) {
	overdue, err := s.services.Expired.ListOverdue(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, overdue)
}

func (s *Server) decideExpired(w http.ResponseWriter, r *http.Request) {
	var req primary.ExpiredDecisionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.ProposalID = mux.Vars(r)["postId"]
	req.DeciderID = actorOr(r, req.DeciderID)

	decision, err := s.services.Expired.Decide(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, decision)
}

func (s *Server) listExpiredDecisions(w http.ResponseWriter, r *http.Request) {
	decisions, err := s.services.Expired.ListDecisions(r.Context(), mux.Vars(r)["postId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, decisions)
}
