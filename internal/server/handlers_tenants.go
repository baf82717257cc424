package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/brand-content-engine/internal/brandvoice"
	"github.com/jonathan/brand-content-engine/internal/types"
)

type createTenantRequest struct {
	Name           string               `json:"name" validate:"required"`
	BrandVoiceData *types.RawBrandVoice `json:"brandVoiceData,omitempty"`
	ContentPillars []string             `json:"contentPillars,omitempty"`
}

// brandVoiceResponse pairs stored data with its normalized form.
type brandVoiceResponse struct {
	TenantID     string                   `json:"tenantId"`
	Raw          *types.RawBrandVoice     `json:"raw"`
	BrandVoice   *types.BrandVoiceContext `json:"brandVoice"`
	Completeness types.Completeness       `json:"completeness"`
	// Invalidated lists templates cleared by an update.
	Invalidated []types.TemplateKind `json:"invalidated,omitempty"`
}

func (s *Server) handleCreateTenant(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	tenant, err := s.deps.Tenants.CreateTenant(r.Context(), &types.Tenant{
		Name:           req.Name,
		BrandVoiceData: req.BrandVoiceData,
		ContentPillars: req.ContentPillars,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, tenant)
}

// maxListLimit bounds GET /tenants?limit=.
const maxListLimit = 200

type tenantListResponse struct {
	Tenants []types.Tenant `json:"tenants"`
}

func (s *Server) handleListTenants(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxListLimit {
			s.handleError(w, r, &ErrValidation{Field: "limit", Message: "must be between 1 and " + strconv.Itoa(maxListLimit)})
			return
		}
		limit = n
	}
	tenants, err := s.deps.Tenants.ListTenants(r.Context(), limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, tenantListResponse{Tenants: tenants})
}

type pillarsRequest struct {
	Pillars []string `json:"pillars" validate:"required,max=20,dive,required"`
}

// handlePutPillars replaces the pillars used when a hooks request names the
// tenant without its own pillar list.
func (s *Server) handlePutPillars(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var req pillarsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	ctx := r.Context()
	if err := s.deps.Tenants.SavePillars(ctx, id, req.Pillars); err != nil {
		s.handleError(w, r, err)
		return
	}
	tenant, err := s.deps.Tenants.GetTenant(ctx, id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, tenant)
}

func (s *Server) handleGetBrandVoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	tenant, err := s.deps.Tenants.GetTenant(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.brandVoiceResponse(tenant, nil))
}

// handlePutBrandVoice replaces the raw data and clears generated templates so
// they are rebuilt from the new facts on next use.
func (s *Server) handlePutBrandVoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	var raw types.RawBrandVoice
	if err := s.decode(w, r, &raw); err != nil {
		s.handleError(w, r, err)
		return
	}

	ctx := r.Context()
	if err := s.deps.Tenants.SaveBrandVoice(ctx, id, &raw); err != nil {
		s.handleError(w, r, err)
		return
	}
	cleared, err := s.deps.Templates.Invalidate(ctx, id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	tenant, err := s.deps.Tenants.GetTenant(ctx, id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.brandVoiceResponse(tenant, cleared))
}

func (s *Server) brandVoiceResponse(tenant *types.Tenant, cleared []types.TemplateKind) brandVoiceResponse {
	return brandVoiceResponse{
		TenantID:     tenant.ID.String(),
		Raw:          tenant.BrandVoiceData,
		BrandVoice:   s.deps.Templates.BrandVoice(tenant),
		Completeness: brandvoice.ValidateCompleteness(tenant.BrandVoiceData),
		Invalidated:  cleared,
	}
}

type updatePromptRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

func (s *Server) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	s.promptAction(w, r, func(p promptTarget) (*types.PromptTemplate, error) {
		return s.deps.Templates.Get(r.Context(), p.tenantID, p.kind)
	})
}

func (s *Server) handleRegeneratePrompt(w http.ResponseWriter, r *http.Request) {
	s.promptAction(w, r, func(p promptTarget) (*types.PromptTemplate, error) {
		return s.deps.Templates.Regenerate(r.Context(), p.tenantID, p.kind)
	})
}

func (s *Server) handleUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	var req updatePromptRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.promptAction(w, r, func(p promptTarget) (*types.PromptTemplate, error) {
		return s.deps.Templates.Update(r.Context(), p.tenantID, p.kind, req.Prompt)
	})
}

type promptTarget struct {
	tenantID uuid.UUID
	kind     types.TemplateKind
}

func (s *Server) promptAction(w http.ResponseWriter, r *http.Request, action func(promptTarget) (*types.PromptTemplate, error)) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	kind, err := pathKind(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	tmpl, err := action(promptTarget{tenantID: id, kind: kind})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, tmpl)
}
