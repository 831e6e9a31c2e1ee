package entity

import (
	"strings"

	"golang.org/x/text/cases"
)

// StockEntry par producto → cantidad, en el orden en que aparece en el ledger.
type StockEntry struct {
	Product string
	Count   int
}

// Ledger representa el inventario: nombre de producto → cantidad no negativa.
// Conserva el orden de inserción de las claves para listados y persistencia estables.
// No es seguro para uso concurrente; el dueño (StockUseCase) serializa el acceso.
type Ledger struct {
	counts map[string]int
	order  []string
}

// NewLedger construye un ledger a partir de entradas; valores negativos se fijan en 0.
func NewLedger(entries ...StockEntry) *Ledger {
	l := &Ledger{counts: make(map[string]int, len(entries))}
	for _, e := range entries {
		l.Set(e.Product, e.Count)
	}
	return l
}

// DefaultLedger devuelve el ledger canónico: los cuatro productos del catálogo en cero.
func DefaultLedger() *Ledger {
	entries := make([]StockEntry, 0, len(Catalogue))
	for _, p := range Catalogue {
		entries = append(entries, StockEntry{Product: p.Name})
	}
	return NewLedger(entries...)
}

// Set fija la cantidad de un producto (lo agrega si no existe). Nunca guarda negativos.
func (l *Ledger) Set(product string, count int) {
	if _, ok := l.counts[product]; !ok {
		l.order = append(l.order, product)
	}
	l.counts[product] = max(0, count)
}

// Get búsqueda exacta por clave.
func (l *Ledger) Get(product string) (int, bool) {
	c, ok := l.counts[product]
	return c, ok
}

// Count búsqueda exacta; una clave ausente cuenta como 0.
func (l *Ledger) Count(product string) int {
	return l.counts[product]
}

// Match resuelve un nombre ingresado por el usuario a la clave canónica:
// recorta espacios y compara con case folding Unicode.
func (l *Ledger) Match(input string) (string, bool) {
	want := foldKey(input)
	if want == "" {
		return "", false
	}
	for _, key := range l.order {
		if foldKey(key) == want {
			return key, true
		}
	}
	return "", false
}

// Add suma amount (puede ser negativo) y devuelve el nuevo valor; el piso es 0.
func (l *Ledger) Add(product string, amount int) int {
	l.Set(product, l.counts[product]+amount)
	return l.counts[product]
}

// Remove resta amount con piso en 0: max(0, actual - amount).
func (l *Ledger) Remove(product string, amount int) int {
	l.Set(product, l.counts[product]-amount)
	return l.counts[product]
}

// Reset pone todas las claves en 0.
func (l *Ledger) Reset() {
	for _, key := range l.order {
		l.counts[key] = 0
	}
}

// Keys devuelve las claves en orden de inserción.
func (l *Ledger) Keys() []string {
	return append([]string(nil), l.order...)
}

// Entries devuelve una copia ordenada del contenido.
func (l *Ledger) Entries() []StockEntry {
	out := make([]StockEntry, 0, len(l.order))
	for _, key := range l.order {
		out = append(out, StockEntry{Product: key, Count: l.counts[key]})
	}
	return out
}

// Clone copia profunda, usada para snapshots fuera del lock.
func (l *Ledger) Clone() *Ledger {
	return NewLedger(l.Entries()...)
}

// Len número de productos.
func (l *Ledger) Len() int { return len(l.order) }

// InStock un producto está en stock si su cantidad es estrictamente mayor a 0.
func InStock(count int) bool { return count > 0 }

func foldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
