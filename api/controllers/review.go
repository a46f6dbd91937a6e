package controllers

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/kozyhq/kozy-review-backend/api/responses"
	"github.com/kozyhq/kozy-review-backend/api/validators"
	"github.com/kozyhq/kozy-review-backend/internal/projects"
	"github.com/kozyhq/kozy-review-backend/pkg/enums"
	pkgerrors "github.com/kozyhq/kozy-review-backend/pkg/errors"
	"github.com/kozyhq/kozy-review-backend/pkg/logger"
)

// ReviewResolve is the landing surface behind both capability links. A valid
// client token counts one view; the editor token never does.
func ReviewResolve(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
			return
		}

		c, err := validators.CapabilityFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var project *projects.ProjectDTO
		switch c.Role {
		case enums.AuthorRoleEditor:
			project, err = svc.ResolveAsEditor(r.Context(), c.Token)
		default:
			project, err = svc.ResolveAsClient(r.Context(), c.Token)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithProjectID(r.Context(), project.ID.String())
			ctx = logg.WithActorRole(ctx, c.Role.String())
			logg.Info(ctx, "review.resolved")
		}
		responses.WriteSuccess(w, map[string]any{
			"project": project,
			"role":    c.Role,
		})
	}
}

// ReviewArtifact streams the shared bytes to an authorized bearer. Clients
// get a download disposition only when the editor allowed it.
func ReviewArtifact(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
			return
		}

		c, err := validators.CapabilityFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		project, err := svc.Authorize(r.Context(), c.Token, c.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rc, fileName, err := svc.OpenArtifact(r.Context(), project.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer rc.Close()

		contentType := mime.TypeByExtension(filepath.Ext(fileName))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)

		disposition := "inline"
		if c.Role == enums.AuthorRoleEditor || project.AllowDownload {
			disposition = "attachment"
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, fileName))

		if _, err := io.Copy(w, rc); err != nil && logg != nil {
			logg.Warn(r.Context(), fmt.Sprintf("artifact stream interrupted: %v", err))
		}
	}
}
