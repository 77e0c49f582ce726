package domain

// ConsentStatus is the lifecycle state of a consent grant. Consents are
// created pending, transition to granted or revoked, and may expire
// passively via their expiry timestamp (no explicit transition).
type ConsentStatus string

const (
	ConsentPending ConsentStatus = "PENDING"
	ConsentGranted ConsentStatus = "GRANTED"
	ConsentRevoked ConsentStatus = "REVOKED"
)

// IsEffective reports whether a consent with this status may ever authorize
// disclosure. Expiry is time-based and checked separately at read time.
func (s ConsentStatus) IsEffective() bool {
	return s == ConsentGranted
}
