package entity

import "time"

// DisplayField sección del mensaje de estado.
type DisplayField struct {
	Name   string
	Value  string
	Inline bool
}

// DisplayPayload contenido estructurado (embed) de un mensaje, independiente de la plataforma.
type DisplayPayload struct {
	Title       string
	Description string
	Color       int
	Fields      []DisplayField
	Timestamp   time.Time
}

// Equal compara dos payloads ignorando Timestamp.
func (p DisplayPayload) Equal(o DisplayPayload) bool {
	if p.Title != o.Title || p.Description != o.Description || p.Color != o.Color {
		return false
	}
	if len(p.Fields) != len(o.Fields) {
		return false
	}
	for i := range p.Fields {
		if p.Fields[i] != o.Fields[i] {
			return false
		}
	}
	return true
}
