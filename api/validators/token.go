package validators

import (
	"net/http"
	"strings"

	"github.com/kozyhq/kozy-review-backend/pkg/enums"
	pkgerrors "github.com/kozyhq/kozy-review-backend/pkg/errors"
)

// Capability is the parsed bearer credential carried in the link query
// string: ?edit=<token> for the editor, ?view=<token> for the client.
type Capability struct {
	Token string
	Role  enums.AuthorRole
}

// CapabilityFromQuery extracts the capability from the request. Exactly one
// of edit/view must be present; the token's validity is the store's call, not
// the parser's.
func CapabilityFromQuery(r *http.Request) (Capability, error) {
	query := r.URL.Query()
	edit := strings.TrimSpace(query.Get("edit"))
	view := strings.TrimSpace(query.Get("view"))

	switch {
	case edit != "" && view != "":
		return Capability{}, pkgerrors.New(pkgerrors.CodeValidation, "provide either edit or view, not both")
	case edit != "":
		return Capability{Token: edit, Role: enums.AuthorRoleEditor}, nil
	case view != "":
		return Capability{Token: view, Role: enums.AuthorRoleClient}, nil
	default:
		return Capability{}, pkgerrors.New(pkgerrors.CodeValidation, "a capability token is required")
	}
}

// EditorCapabilityFromQuery accepts only the editor token. Endpoints that
// mutate the feed or tear down the session use this.
func EditorCapabilityFromQuery(r *http.Request) (Capability, error) {
	c, err := CapabilityFromQuery(r)
	if err != nil {
		return Capability{}, err
	}
	if c.Role != enums.AuthorRoleEditor {
		return Capability{}, pkgerrors.New(pkgerrors.CodeForbidden, "editor token required")
	}
	return c, nil
}

// ClientCapabilityFromQuery accepts only the client token.
func ClientCapabilityFromQuery(r *http.Request) (Capability, error) {
	c, err := CapabilityFromQuery(r)
	if err != nil {
		return Capability{}, err
	}
	if c.Role != enums.AuthorRoleClient {
		return Capability{}, pkgerrors.New(pkgerrors.CodeForbidden, "client token required")
	}
	return c, nil
}
