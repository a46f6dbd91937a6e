package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/kozyhq/kozy-review-backend/api/responses"
	"github.com/kozyhq/kozy-review-backend/api/validators"
	"github.com/kozyhq/kozy-review-backend/internal/projects"
	pkgerrors "github.com/kozyhq/kozy-review-backend/pkg/errors"
	"github.com/kozyhq/kozy-review-backend/pkg/logger"
)

// ProjectCreate handles the multipart share form: metadata fields plus the
// artifact file. The response is the only place both capability links appear.
func ProjectCreate(svc projects.Service, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
			return
		}

		maxBytes := int64(maxUploadMB) << 20
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}

		// Stream the file part; only small metadata fields stay in memory.
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		allowDownload, _ := strconv.ParseBool(strings.TrimSpace(r.FormValue("allow_download")))

		file, header, err := r.FormFile("artifact")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "artifact file is required"))
			return
		}
		defer file.Close()

		out, err := svc.Create(r.Context(), projects.CreateInput{
			Title:         r.FormValue("title"),
			Description:   r.FormValue("description"),
			AllowDownload: allowDownload,
			FileName:      header.Filename,
		}, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithProjectID(r.Context(), out.Project.ID.String())
			logg.Info(ctx, "project.created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}

// ProjectDeactivate tears down the session identified by the editor token.
func ProjectDeactivate(svc projects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "project service unavailable"))
			return
		}

		c, err := validators.EditorCapabilityFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		project, err := svc.Authorize(r.Context(), c.Token, c.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), project.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithProjectID(r.Context(), project.ID.String())
			logg.Info(ctx, "project.deactivated")
		}
		responses.WriteSuccess(w, map[string]bool{"deactivated": true})
	}
}
