package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/brand-content-engine/internal/generation"
	"github.com/jonathan/brand-content-engine/internal/templates"
	"github.com/jonathan/brand-content-engine/internal/types"
)

// withTenant fills brand voice and pillars from the tenant record when the
// request names a tenant and leaves them out.
func (s *Server) withTenant(ctx context.Context, tenantID *uuid.UUID, bv **types.RawBrandVoice, pillars *[]string) error {
	if tenantID == nil {
		return nil
	}
	tenant, err := s.deps.Tenants.GetTenant(ctx, *tenantID)
	if err != nil {
		return err
	}
	if *bv == nil {
		*bv = templates.RawBrandVoice(tenant)
	}
	if pillars != nil && len(*pillars) == 0 {
		*pillars = tenant.ContentPillars
	}
	return nil
}

func (s *Server) handleHooks(w http.ResponseWriter, r *http.Request) {
	var req generation.HookRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.withTenant(r.Context(), req.TenantID, &req.BrandVoice, &req.Pillars); err != nil {
		s.handleError(w, r, err)
		return
	}
	hooks, err := s.deps.Pipeline.GenerateHooks(r.Context(), req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"hooks": hooks})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	var req generation.PostRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.withTenant(r.Context(), req.TenantID, &req.BrandVoice, nil); err != nil {
		s.handleError(w, r, err)
		return
	}
	post, err := s.deps.Pipeline.GeneratePost(r.Context(), req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, post)
}

func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	var req generation.RewriteRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	content, err := s.deps.Pipeline.Rewrite(r.Context(), req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"content": content})
}

func (s *Server) handleImagePrompt(w http.ResponseWriter, r *http.Request) {
	var req generation.ImageRequest
	if err := s.decode(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := s.withTenant(r.Context(), req.TenantID, &req.BrandVoice, nil); err != nil {
		s.handleError(w, r, err)
		return
	}
	prompt, err := s.deps.Pipeline.ImagePrompt(r.Context(), req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"prompt": prompt})
}
