package enums

// ProjectStatus is the derived lifecycle state of a shared project. Only two
// transitions exist: Active to Expired when the TTL elapses, and Active (or
// Expired) to Deleted once the artifact is reclaimed. Nothing leaves Deleted.
type ProjectStatus string

const (
	ProjectStatusActive  ProjectStatus = "active"
	ProjectStatusExpired ProjectStatus = "expired"
	ProjectStatusDeleted ProjectStatus = "deleted"
)

// String implements fmt.Stringer.
func (p ProjectStatus) String() string {
	return string(p)
}
