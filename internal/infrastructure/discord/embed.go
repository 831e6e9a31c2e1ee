package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jhoicas/stock-bot/internal/domain/entity"
)

// ToEmbed convierte el payload de dominio al embed de Discord.
func ToEmbed(p entity.DisplayPayload) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       p.Title,
		Description: p.Description,
		Color:       p.Color,
	}
	if !p.Timestamp.IsZero() {
		embed.Timestamp = p.Timestamp.UTC().Format(time.RFC3339)
	}
	for _, f := range p.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return embed
}
