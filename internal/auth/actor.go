// Package auth carries the resolved identity of the user behind an intent.
// Authentication itself happens outside this service; handlers receive an
// already-resolved identity and role and pass it along unchanged.
package auth

// Actor identifies the user submitting an intent.
type Actor struct {
	// UserID is the stable player identity. Empty means unauthenticated.
	UserID string
	// DM grants the table-owner role: overrides, resolutions, resets.
	DM bool
}

// Owns reports whether the actor owns the entity with the given owner ID.
// DM-controlled entities (empty owner) belong to the DM.
func (a Actor) Owns(ownerID string) bool {
	if ownerID == "" {
		return a.DM
	}
	return a.UserID == ownerID
}
