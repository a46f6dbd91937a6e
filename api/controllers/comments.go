package controllers

import (
	"net/http"

	"github.com/kozyhq/kozy-review-backend/api/responses"
	"github.com/kozyhq/kozy-review-backend/api/validators"
	"github.com/kozyhq/kozy-review-backend/internal/comments"
	"github.com/kozyhq/kozy-review-backend/internal/projects"
	pkgerrors "github.com/kozyhq/kozy-review-backend/pkg/errors"
	"github.com/kozyhq/kozy-review-backend/pkg/logger"
)

type commentAddRequest struct {
	Position   float64 `json:"position" validate:"gte=0"`
	Text       string  `json:"text" validate:"required"`
	AuthorName string  `json:"author_name" validate:"required"`
	Category   string  `json:"category,omitempty"`
	Priority   string  `json:"priority,omitempty"`
}

type sessionCompleteRequest struct {
	AuthorName string `json:"author_name" validate:"required"`
}

// CommentsList returns the ordered feed plus its aggregate stats.
func CommentsList(projectsSvc projects.Service, commentsSvc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, _, ok := authorize(w, r, projectsSvc, logg)
		if !ok {
			return
		}

		feed, err := commentsSvc.List(r.Context(), project.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stats, err := commentsSvc.Stats(r.Context(), project.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"comments": feed,
			"stats":    stats,
		})
	}
}

// CommentAdd appends feedback. The author role comes from the resolving
// token, never from the body.
func CommentAdd(projectsSvc projects.Service, commentsSvc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, role, ok := authorize(w, r, projectsSvc, logg)
		if !ok {
			return
		}

		var payload commentAddRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := commentsSvc.Add(r.Context(), project.ID, comments.AddInput{
			Position:   payload.Position,
			Text:       payload.Text,
			AuthorName: payload.AuthorName,
			AuthorRole: role,
			Category:   payload.Category,
			Priority:   payload.Priority,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// CommentToggle flips resolved state. Editor capability only.
func CommentToggle(projectsSvc projects.Service, commentsSvc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, role, ok := authorizeEditor(w, r, projectsSvc, logg)
		if !ok {
			return
		}

		commentID, err := commentIDFromRoute(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := commentsSvc.ToggleResolved(r.Context(), commentID, role); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"toggled": true})
	}
}

// CommentDelete removes a comment. Editor capability only.
func CommentDelete(projectsSvc projects.Service, commentsSvc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, role, ok := authorizeEditor(w, r, projectsSvc, logg)
		if !ok {
			return
		}

		commentID, err := commentIDFromRoute(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := commentsSvc.Delete(r.Context(), commentID, role); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// ReviewComplete records the client's completion marker.
func ReviewComplete(projectsSvc projects.Service, commentsSvc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if projectsSvc == nil || commentsSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review services unavailable"))
			return
		}

		c, err := validators.ClientCapabilityFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		project, err := projectsSvc.Authorize(r.Context(), c.Token, c.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload sessionCompleteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := commentsSvc.MarkSessionComplete(r.Context(), project.ID, payload.AuthorName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithProjectID(r.Context(), project.ID.String())
			logg.Info(ctx, "review.session_complete")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}
