package staff

import "fmt"

// Identity is the authenticated staff member as issued by the login endpoint.
// It is replaced wholesale on each login and never mutated.
type Identity struct {
	ID         int    `json:"id"`
	FamilyName string `json:"nom"`
	GivenName  string `json:"prenom"`
	Role       Role   `json:"role"`
}

// FullName returns "<given> <family>".
func (i Identity) FullName() string {
	return fmt.Sprintf("%s %s", i.GivenName, i.FamilyName)
}

// Validate rejects identities that cannot back a session.
func (i Identity) Validate() error {
	if !i.Role.Valid() {
		return fmt.Errorf("identity %d: invalid role", i.ID)
	}
	return nil
}
