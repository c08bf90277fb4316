package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"promohub/internal/domain"
	"promohub/internal/domain/model"
	"promohub/internal/infra/logging"
	"promohub/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type companySignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) businessSignUp(w http.ResponseWriter, r *http.Request) {
	var req companySignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("body", "malformed JSON"))
		return
	}
	c, err := s.companyUC.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := s.auth.Mint(r.Context(), c.Email, AudienceBusiness)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) businessSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("body", "malformed JSON"))
		return
	}
	c, err := s.companyUC.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := s.auth.Mint(r.Context(), c.Email, AudienceBusiness)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// company resolves the authenticated company from the token claims.
func (s *Server) company(r *http.Request) (*model.Company, error) {
	claims := claimsFrom(r.Context())
	if claims == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.companyUC.GetByEmail(r.Context(), claims.Email)
}

type promoCreateRequest struct {
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url"`
	Target      targetDTO `json:"target"`
	MaxCount    int       `json:"max_count"`
	ActiveFrom  *string   `json:"active_from"`
	ActiveUntil *string   `json:"active_until"`
	Mode        string    `json:"mode"`
	CommonCode  *string   `json:"promo_common"`
	UniqueCodes []string  `json:"promo_unique"`
}

func (s *Server) businessCreatePromo(w http.ResponseWriter, r *http.Request) {
	c, err := s.company(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req promoCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("body", "malformed JSON"))
		return
	}
	in := &model.CreatePromo{
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Target:      req.Target.toModel(),
		MaxCount:    req.MaxCount,
		ActiveFrom:  req.ActiveFrom,
		ActiveUntil: req.ActiveUntil,
		Mode:        model.Mode(req.Mode),
		CommonCode:  req.CommonCode,
		UniqueCodes: req.UniqueCodes,
	}
	ctx := logging.WithCompanyID(r.Context(), c.ID)
	p, err := s.promoUC.Create(ctx, c, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": p.ID})
}

func (s *Server) businessListPromos(w http.ResponseWriter, r *http.Request) {
	c, err := s.company(r)
	if err != nil {
		writeError(w, err)
		return
	}
	f := usecase.ListFilter{SortBy: r.URL.Query().Get("sort_by")}
	if raw := r.URL.Query()["country"]; len(raw) > 0 {
		for _, v := range raw {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					f.Countries = append(f.Countries, part)
				}
			}
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, domain.Invalid("offset", "must be an integer"))
			return
		}
		f.Offset = &n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, domain.Invalid("limit", "must be an integer"))
			return
		}
		f.Limit = &n
	}

	promos, total, err := s.promoUC.List(r.Context(), c.ID, f)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]promoResponse, 0, len(promos))
	for _, p := range promos {
		out = append(out, promoToResponse(p))
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) businessGetPromo(w http.ResponseWriter, r *http.Request) {
	c, err := s.company(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := s.promoUC.Get(r.Context(), c.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promoToResponse(p))
}

type promoPatchRequest struct {
	Description *string    `json:"description"`
	ImageURL    *string    `json:"image_url"`
	Target      *targetDTO `json:"target"`
	MaxCount    *int       `json:"max_count"`
	ActiveFrom  *string    `json:"active_from"`
	ActiveUntil *string    `json:"active_until"`
	Active      *bool      `json:"active"`

	Mode        *string  `json:"mode"`
	CommonCode  *string  `json:"promo_common"`
	UniqueCodes []string `json:"promo_unique"`
}

func (s *Server) businessPatchPromo(w http.ResponseWriter, r *http.Request) {
	c, err := s.company(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req promoPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Invalid("body", "malformed JSON"))
		return
	}
	in := &model.PatchPromo{
		Description: req.Description,
		ImageURL:    req.ImageURL,
		MaxCount:    req.MaxCount,
		ActiveFrom:  req.ActiveFrom,
		ActiveUntil: req.ActiveUntil,
		Active:      req.Active,
		CommonCode:  req.CommonCode,
		UniqueCodes: req.UniqueCodes,
	}
	if req.Target != nil {
		t := req.Target.toModel()
		in.Target = &t
	}
	if req.Mode != nil {
		m := model.Mode(*req.Mode)
		in.Mode = &m
	}
	ctx := logging.WithCompanyID(r.Context(), c.ID)
	p, err := s.promoUC.Patch(ctx, c.ID, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promoToResponse(p))
}

type promoStatResponse struct {
	ActivationsCount int              `json:"activations_count"`
	Countries        []countryStatDTO `json:"countries"`
}

type countryStatDTO struct {
	Country          string `json:"country"`
	ActivationsCount int    `json:"activations_count"`
}

func (s *Server) businessPromoStat(w http.ResponseWriter, r *http.Request) {
	c, err := s.company(r)
	if err != nil {
		writeError(w, err)
		return
	}
	stat, err := s.promoUC.Stat(r.Context(), c.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := promoStatResponse{
		ActivationsCount: stat.ActivationsCount,
		Countries:        make([]countryStatDTO, 0, len(stat.Countries)),
	}
	for _, cs := range stat.Countries {
		out.Countries = append(out.Countries, countryStatDTO{Country: cs.Country, ActivationsCount: cs.ActivationsCount})
	}
	writeJSON(w, http.StatusOK, out)
}
