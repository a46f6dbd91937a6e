package enums

import "fmt"

// AuthorRole identifies which capability token authored an action. The role
// is established by the resolver, never re-derived from request bodies.
type AuthorRole string

const (
	AuthorRoleEditor AuthorRole = "editor"
	AuthorRoleClient AuthorRole = "client"
)

var validAuthorRoles = []AuthorRole{
	AuthorRoleEditor,
	AuthorRoleClient,
}

// String implements fmt.Stringer.
func (a AuthorRole) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AuthorRole.
func (a AuthorRole) IsValid() bool {
	for _, candidate := range validAuthorRoles {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAuthorRole converts raw input into an AuthorRole.
func ParseAuthorRole(value string) (AuthorRole, error) {
	for _, candidate := range validAuthorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid author role %q", value)
}
