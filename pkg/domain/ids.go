package domain

import (
	"github.com/google/uuid"

	dErrors "moniker/pkg/domain-errors"
)

// Typed IDs keep the engine's identity axes from being swapped by accident:
// the compiler rejects a NameID where an IdentityID is expected.
//
// Construct via the Parse* functions at trust boundaries; direct casting
// bypasses validation.
type (
	// IdentityID identifies a person (target or requester).
	IdentityID uuid.UUID

	// NameID identifies one name variant of an identity.
	NameID uuid.UUID

	// ContextID identifies a target-defined disclosure context.
	ContextID uuid.UUID

	// ConsentID identifies a consent grant between two identities.
	ConsentID uuid.UUID
)

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseIdentityID validates external input into an IdentityID.
func ParseIdentityID(s string) (IdentityID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return IdentityID{}, err
	}
	return IdentityID(u), nil
}

// ParseNameID validates external input into a NameID.
func ParseNameID(s string) (NameID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return NameID{}, err
	}
	return NameID(u), nil
}

// ParseContextID validates external input into a ContextID.
func ParseContextID(s string) (ContextID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return ContextID{}, err
	}
	return ContextID(u), nil
}

// ParseConsentID validates external input into a ConsentID.
func ParseConsentID(s string) (ConsentID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return ConsentID{}, err
	}
	return ConsentID(u), nil
}

func (id IdentityID) String() string { return uuid.UUID(id).String() }
func (id NameID) String() string     { return uuid.UUID(id).String() }
func (id ContextID) String() string  { return uuid.UUID(id).String() }
func (id ConsentID) String() string  { return uuid.UUID(id).String() }

func (id IdentityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id NameID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ContextID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ConsentID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

// NewIdentityID returns a fresh random IdentityID. Intended for tests and
// seed data; production identities are minted by the dashboard, not here.
func NewIdentityID() IdentityID { return IdentityID(uuid.New()) }

// NewNameID returns a fresh random NameID.
func NewNameID() NameID { return NameID(uuid.New()) }

// NewContextID returns a fresh random ContextID.
func NewContextID() ContextID { return ContextID(uuid.New()) }

// NewConsentID returns a fresh random ConsentID.
func NewConsentID() ConsentID { return ConsentID(uuid.New()) }
