package entity

// Identity quien invoca un comando. Tiene exactamente dos variantes:
// ResolvedMember (miembro del servidor con roles conocidos) y UnresolvedIdentity.
type Identity interface {
	UserID() string
	identity()
}

// ResolvedMember miembro de servidor con su lista de roles.
type ResolvedMember struct {
	ID    string
	Roles []string
}

func (m ResolvedMember) UserID() string { return m.ID }
func (ResolvedMember) identity()        {}

// UnresolvedIdentity usuario sin contexto de servidor o sin roles disponibles (p. ej. DM).
type UnresolvedIdentity struct {
	ID string
}

func (u UnresolvedIdentity) UserID() string { return u.ID }
func (UnresolvedIdentity) identity()        {}
