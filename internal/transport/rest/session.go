package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/abgdnv/giftshop/internal/catalog"
	"github.com/abgdnv/giftshop/internal/session"
	"github.com/abgdnv/giftshop/pkg/auth"
	"github.com/abgdnv/giftshop/pkg/web"
)

// SessionResponse describes the visitor's session.
type SessionResponse struct {
	ID        string               `json:"id"`
	User      *session.User        `json:"user"`
	Auth      session.FlowSnapshot `json:"auth"`
	CartItems int                  `json:"cartItems"`
	Wishlist  int                  `json:"wishlistCount"`
}

func newSessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID.String(),
		User:      s.User(),
		Auth:      s.Flow(),
		CartItems: s.Cart().ItemCount,
		Wishlist:  len(s.Wishlist()),
	}
}

// CreateSession starts a session. A bearer token is restored into a signed-in session when it is still valid.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	token, _ := auth.BearerToken(r)
	s := h.sessions.Create(r.Context(), token)
	w.Header().Set(SessionHeader, s.ID.String())
	web.RespondJSON(w, h.logger, http.StatusCreated, newSessionResponse(s))
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseUUIDParam(w, r, h.logger, "id")
	if !ok {
		return
	}
	if err := h.sessions.Delete(id); err != nil {
		h.respondErr(w, r, err, "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, newSessionResponse(sessionFrom(r.Context())))
}

func (h *Handler) GetCriteria(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, sessionFrom(r.Context()).Criteria())
}

// criteriaRequest is the wire form of catalog.Criteria. Omitted prices keep the defaults.
type criteriaRequest struct {
	Category    string `json:"category" validate:"max=64"`
	Query       string `json:"query" validate:"max=200"`
	MinPrice    *int64 `json:"minPrice"`
	MaxPrice    *int64 `json:"maxPrice"`
	InStockOnly bool   `json:"inStockOnly"`
	Sort        string `json:"sort" validate:"max=32"`
}

func (c criteriaRequest) criteria() (catalog.Criteria, error) {
	out := catalog.DefaultCriteria()
	var err error
	if out.Category, err = catalog.ParseCategory(c.Category); err != nil {
		return out, err
	}
	if out.Sort, err = catalog.ParseSortKey(c.Sort); err != nil {
		return out, err
	}
	out.Query = c.Query
	out.InStockOnly = c.InStockOnly
	if c.MinPrice != nil {
		out.MinPrice = *c.MinPrice
	}
	if c.MaxPrice != nil {
		out.MaxPrice = *c.MaxPrice
	}
	return out, nil
}

func (h *Handler) PutCriteria(w http.ResponseWriter, r *http.Request) {
	var req criteriaRequest
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &req) {
		return
	}
	c, err := req.criteria()
	if err != nil {
		h.respondErr(w, r, err, "")
		return
	}
	s := sessionFrom(r.Context())
	s.SetCriteria(c)
	web.RespondJSON(w, h.logger, http.StatusOK, c)
}

// ResetCriteria restores the default filters and keeps the sort.
func (h *Handler) ResetCriteria(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	c := s.Criteria().ResetFilters()
	s.SetCriteria(c)
	web.RespondJSON(w, h.logger, http.StatusOK, c)
}

// AuthResponse is returned by the sign-in and sign-up routes.
type AuthResponse struct {
	User *session.User        `json:"user"`
	Auth session.FlowSnapshot `json:"auth"`
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, session.ModeSignIn)
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, session.ModeSignUp)
}

// submit decodes the form without validating it; the auth flow validates and records the outcome.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request, mode session.Mode) {
	var form session.Form
	if err := decodeJSON(r, &form); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	s := sessionFrom(r.Context())
	var (
		user *session.User
		err  error
	)
	if mode == session.ModeSignUp {
		user, err = h.sessions.SignUp(r.Context(), s.ID, form)
	} else {
		user, err = h.sessions.SignIn(r.Context(), s.ID, form)
	}
	if err != nil {
		h.respondErr(w, r, err, s.Flow().Error)
		return
	}
	h.logger.InfoContext(r.Context(), "Signed in", "mode", mode, "user_id", user.ID)
	web.RespondJSON(w, h.logger, http.StatusOK, AuthResponse{User: user, Auth: s.Flow()})
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	if err := h.sessions.SignOut(r.Context(), s.ID); err != nil {
		h.respondErr(w, r, err, "")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, newSessionResponse(s))
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	if err := h.sessions.Refresh(r.Context(), s.ID); err != nil {
		h.respondErr(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

const maxBodyBytes = 1 << 20

// decodeJSON decodes an optional JSON body. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
