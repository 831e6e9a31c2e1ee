package entity

// ChannelTarget servidor + canal donde vive el mensaje de estado.
type ChannelTarget struct {
	GuildID   string
	ChannelID string
}

// TicketWatchConfig categoría vigilada y destinatario de las alertas.
type TicketWatchConfig struct {
	CategoryID  string
	AlertUserID string
}

// CreatedChannel notificación de canal creado.
type CreatedChannel struct {
	ID       string
	GuildID  string
	Name     string
	ParentID string
}

// Mention referencia clicable al canal.
func (c CreatedChannel) Mention() string {
	return "<#" + c.ID + ">"
}

// Message mensaje del historial de un canal (solo lo que necesita la reconciliación).
type Message struct {
	ID       string
	AuthorID string
}

// User usuario de la plataforma.
type User struct {
	ID       string
	Username string
}
