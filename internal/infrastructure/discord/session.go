package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Intents necesarios: servidores (eventos de canal), miembros (roles) y DMs.
const intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsDirectMessages

// NewSession crea la sesión del bot (sin abrir el gateway).
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("crear sesión: %w", err)
	}
	s.Identify.Intents = intents
	s.StateEnabled = true
	return s, nil
}
