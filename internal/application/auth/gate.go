package auth

import "github.com/jhoicas/stock-bot/internal/domain/entity"

// Gate decide si una identidad puede ejecutar operaciones de mutación o lectura privilegiada.
// El conjunto de roles autorizados es inmutable después de construido.
type Gate struct {
	roles map[string]struct{}
}

// NewGate construye el gate con los IDs de rol autorizados. Vacío = nadie autorizado.
func NewGate(authorizedRoles []string) *Gate {
	roles := make(map[string]struct{}, len(authorizedRoles))
	for _, r := range authorizedRoles {
		if r == "" {
			continue
		}
		roles[r] = struct{}{}
	}
	return &Gate{roles: roles}
}

// IsAuthorized true si y solo si who es un miembro resuelto con al menos un rol autorizado.
// Una identidad sin resolver nunca está autorizada; nunca devuelve error.
func (g *Gate) IsAuthorized(who entity.Identity) bool {
	member, ok := who.(entity.ResolvedMember)
	if !ok || len(g.roles) == 0 {
		return false
	}
	for _, r := range member.Roles {
		if _, ok := g.roles[r]; ok {
			return true
		}
	}
	return false
}

// Roles cantidad de roles configurados (para logs de arranque).
func (g *Gate) Roles() int { return len(g.roles) }
