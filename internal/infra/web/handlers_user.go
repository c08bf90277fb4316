package web

import (
	"encoding/json"
	"net/http"

	"promohub/internal/domain"
	"promohub/internal/domain/model"
	"promohub/internal/infra/logging"

	"github.com/go-chi/chi/v5"
)

type userSignUpRequest struct {
	Name      string           `json:"name"`
	Surname   string           `json:"surname"`
	Email     string           `json:"email"`
	AvatarURL *string          `json:"avatar_url"`
	Other     userTargetingDTO `json:"other"`
	Password  string           `json:"password"`
}

func (s *Server) userSignUp(w http.ResponseWriter, r *http.Request) {
	var req userSignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("body", "malformed JSON"))
		return
	}
	u, err := s.userUC.Register(r.Context(), req.Name, req.Surname, req.Email, req.AvatarURL,
		model.UserTargeting{Age: req.Other.Age, Country: req.Other.Country}, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := s.auth.Mint(r.Context(), u.Email, AudienceUser)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) userSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("body", "malformed JSON"))
		return
	}
	u, err := s.userUC.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := s.auth.Mint(r.Context(), u.Email, AudienceUser)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// user resolves the authenticated user from the token claims.
func (s *Server) user(r *http.Request) (*model.User, error) {
	claims := claimsFrom(r.Context())
	if claims == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.userUC.GetByEmail(r.Context(), claims.Email)
}

func (s *Server) userGetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.user(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userToProfile(u))
}

type userPatchRequest struct {
	Name      *string `json:"name"`
	Surname   *string `json:"surname"`
	AvatarURL *string `json:"avatar_url"`
	Password  *string `json:"password"`
}

func (s *Server) userPatchProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	var req userPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("body", "malformed JSON"))
		return
	}
	u, err := s.userUC.UpdateProfile(r.Context(), claims.Email, model.PatchUser{
		Name:      req.Name,
		Surname:   req.Surname,
		AvatarURL: req.AvatarURL,
		Password:  req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userToProfile(u))
}

func (s *Server) userFeed(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	promos, err := s.feedUC.Feed(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]promoForUser, 0, len(promos))
	for _, p := range promos {
		out = append(out, promoToUserView(p, claims.Email))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) userGetPromo(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	p, err := s.feedUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promoToUserView(p, claims.Email))
}

func (s *Server) userLikePromo(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if err := s.feedUC.Like(r.Context(), chi.URLParam(r, "id"), claims.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) userUnlikePromo(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if err := s.feedUC.Unlike(r.Context(), chi.URLParam(r, "id"), claims.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) userListComments(w http.ResponseWriter, r *http.Request) {
	p, err := s.feedUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]commentResponse, 0, len(p.Comments))
	for _, c := range p.Comments {
		out = append(out, commentToResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

type commentCreateRequest struct {
	Text string `json:"text"`
}

func (s *Server) userAddComment(w http.ResponseWriter, r *http.Request) {
	u, err := s.user(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req commentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("body", "malformed JSON"))
		return
	}
	c, err := s.feedUC.Comment(r.Context(), chi.URLParam(r, "id"), u, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentToResponse(*c))
}

type activateRequest struct {
	Code *string `json:"code"`
}

func (s *Server) userActivatePromo(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	promoID := chi.URLParam(r, "id")

	var req activateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, domain.Invalid("body", "malformed JSON"))
			return
		}
	}

	ctx := logging.WithPromoID(r.Context(), promoID)
	code, err := s.activationUC.Activate(ctx, promoID, claims.Email, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"promo": code})
}
