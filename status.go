package warps

// Status is the outcome of a teleport attempt.
type Status uint8

const (
	// StatusNone means no teleport happened and the entity was not touched.
	StatusNone Status = iota

	// StatusOriginal means the entity arrived exactly at the warp's stored position.
	StatusOriginal

	// StatusModified means the entity arrived at a corrected position.
	StatusModified
)

// Teleported reports whether the entity was moved.
func (s Status) Teleported() bool {
	return s != StatusNone
}

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusOriginal:
		return "original"
	case StatusModified:
		return "modified"
	default:
		return "unknown"
	}
}
