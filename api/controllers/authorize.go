package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kozyhq/kozy-review-backend/api/responses"
	"github.com/kozyhq/kozy-review-backend/api/validators"
	"github.com/kozyhq/kozy-review-backend/internal/projects"
	"github.com/kozyhq/kozy-review-backend/pkg/enums"
	pkgerrors "github.com/kozyhq/kozy-review-backend/pkg/errors"
	"github.com/kozyhq/kozy-review-backend/pkg/logger"
)

// authorize resolves either capability and writes the error itself on
// failure. Returns ok=false once a response has been written.
func authorize(w http.ResponseWriter, r *http.Request, svc projects.Service, logg *logger.Logger) (*projects.ProjectDTO, enums.AuthorRole, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
		return nil, "", false
	}

	c, err := validators.CapabilityFromQuery(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, "", false
	}

	project, err := svc.Authorize(r.Context(), c.Token, c.Role)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, "", false
	}
	return project, c.Role, true
}

// authorizeEditor is authorize restricted to the editor capability.
func authorizeEditor(w http.ResponseWriter, r *http.Request, svc projects.Service, logg *logger.Logger) (*projects.ProjectDTO, enums.AuthorRole, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
		return nil, "", false
	}

	c, err := validators.EditorCapabilityFromQuery(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, "", false
	}

	project, err := svc.Authorize(r.Context(), c.Token, c.Role)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, "", false
	}
	return project, c.Role, true
}

func commentIDFromRoute(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "commentId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid comment id")
	}
	return id, nil
}
