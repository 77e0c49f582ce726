package domain

import "github.com/google/uuid"

// Text marshalling so typed IDs serialize as canonical UUID strings in JSON
// and database scans rather than as byte arrays.

func (id IdentityID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id NameID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id ContextID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id ConsentID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }

func (id *IdentityID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = IdentityID(u)
	return nil
}

func (id *NameID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = NameID(u)
	return nil
}

func (id *ContextID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = ContextID(u)
	return nil
}

func (id *ConsentID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = ConsentID(u)
	return nil
}
