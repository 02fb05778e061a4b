package solvent

// Cause records why an incompatibility exists. It is a closed set: the
// explanation code matches exhaustively over these types and panics on
// anything else, so a new cause cannot be added without teaching every
// rendering branch about it.
type Cause interface {
	isCause()
}

// RootCause marks the incompatibility anchoring the root package to its
// declared version.
type RootCause struct{}

// DependencyCause marks an incompatibility encoding a declared dependency:
// a positive term for the depender and a negative term for the dependee.
type DependencyCause struct{}

// NoVersionsCause marks that no published version satisfies a constraint.
type NoVersionsCause struct{}

// SDKCause marks a conflict with the platform the solver is running
// against.
type SDKCause struct{}

// ConflictCause marks an incompatibility derived from two earlier ones
// during conflict resolution, linking the parents so a derivation proof can
// be reconstructed.
type ConflictCause struct {
	Conflict *Incompatibility
	Other    *Incompatibility
}

func (RootCause) isCause()       {}
func (DependencyCause) isCause() {}
func (NoVersionsCause) isCause() {}
func (SDKCause) isCause()        {}
func (ConflictCause) isCause()   {}

func isDependency(c Cause) bool {
	_, ok := c.(DependencyCause)
	return ok
}

func isConflict(in *Incompatibility) bool {
	_, ok := in.cause.(ConflictCause)
	return ok
}
