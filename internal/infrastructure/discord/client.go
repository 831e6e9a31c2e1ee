package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/jhoicas/stock-bot/internal/application/reconcile"
	"github.com/jhoicas/stock-bot/internal/application/startup"
	"github.com/jhoicas/stock-bot/internal/application/ticket"
	"github.com/jhoicas/stock-bot/internal/domain"
	"github.com/jhoicas/stock-bot/internal/domain/entity"
	"github.com/jhoicas/stock-bot/pkg/logger"
)

var (
	_ reconcile.ChannelAPI = (*Client)(nil)
	_ ticket.Notifier      = (*Client)(nil)
	_ startup.Platform     = (*Client)(nil)
)

// Permisos necesarios para publicar el mensaje de estado.
const requiredPerms = discordgo.PermissionSendMessages | discordgo.PermissionEmbedLinks

// Client adaptador de la plataforma: implementa los puertos de reconciliación,
// alertas de tickets, arranque y respuestas a interacciones sobre discordgo.
type Client struct {
	api      API
	state    *discordgo.State
	selfID   func() string
	commands []*discordgo.ApplicationCommand
	log      *logger.Logger
}

// NewClient construye el adaptador sobre una sesión de discordgo.
func NewClient(s *discordgo.Session, log *logger.Logger) *Client {
	return &Client{
		api:   s,
		state: s.State,
		selfID: func() string {
			if s.State != nil && s.State.User != nil {
				return s.State.User.ID
			}
			return ""
		},
		commands: Commands(),
		log:      log.Named("discord"),
	}
}

// NewClientFromAPI construye el adaptador sin caché de estado (tests o herramientas).
func NewClientFromAPI(api API, selfID string, log *logger.Logger) *Client {
	return &Client{
		api:      api,
		selfID:   func() string { return selfID },
		commands: Commands(),
		log:      log.Named("discord"),
	}
}

// WithState consulta primero la caché del gateway antes de ir a REST.
func (c *Client) WithState(state *discordgo.State) *Client {
	c.state = state
	return c
}

// BotUserID identidad del bot.
func (c *Client) BotUserID() string { return c.selfID() }

// ResolveChannel verifica que el canal configurado exista y sea visible.
func (c *Client) ResolveChannel(ctx context.Context, target entity.ChannelTarget) (string, error) {
	if target.ChannelID == "" {
		return "", fmt.Errorf("%w: channel_id no configurado", domain.ErrChannelNotFound)
	}
	if c.state != nil {
		if ch, err := c.state.Channel(target.ChannelID); err == nil {
			return inGuild(ch, target)
		}
	}
	ch, err := c.api.Channel(target.ChannelID, discordgo.WithContext(ctx))
	if err != nil {
		return "", mapError("channel", err, domain.ErrChannelNotFound)
	}
	return inGuild(ch, target)
}

// inGuild rechaza canales de otro servidor, vengan de la caché o de REST.
func inGuild(ch *discordgo.Channel, target entity.ChannelTarget) (string, error) {
	if target.GuildID != "" && ch.GuildID != "" && ch.GuildID != target.GuildID {
		return "", fmt.Errorf("%w: el canal %s no pertenece al servidor %s", domain.ErrChannelNotFound, ch.ID, target.GuildID)
	}
	return ch.ID, nil
}

// CanPostEmbeds true si el bot tiene SendMessages y EmbedLinks en el canal.
func (c *Client) CanPostEmbeds(ctx context.Context, channelID string) (bool, error) {
	perms, err := c.api.UserChannelPermissions(c.selfID(), channelID, discordgo.WithContext(ctx))
	if err != nil {
		return false, mapError("permissions", err, domain.ErrChannelNotFound)
	}
	return perms&requiredPerms == requiredPerms, nil
}

// RecentMessages hasta limit mensajes del canal, del más nuevo al más viejo.
func (c *Client) RecentMessages(ctx context.Context, channelID string, limit int) ([]entity.Message, error) {
	msgs, err := c.api.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError("history", err, domain.ErrChannelNotFound)
	}
	out := make([]entity.Message, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		msg := entity.Message{ID: m.ID}
		if m.Author != nil {
			msg.AuthorID = m.Author.ID
		}
		out = append(out, msg)
	}
	return out, nil
}

// SendPayload publica un mensaje nuevo con el embed.
func (c *Client) SendPayload(ctx context.Context, channelID string, payload entity.DisplayPayload) (string, error) {
	m, err := c.api.ChannelMessageSendEmbed(channelID, ToEmbed(payload), discordgo.WithContext(ctx))
	if err != nil {
		return "", mapError("send", err, domain.ErrChannelNotFound)
	}
	return m.ID, nil
}

// EditPayload reemplaza el embed de un mensaje existente.
func (c *Client) EditPayload(ctx context.Context, channelID, messageID string, payload entity.DisplayPayload) error {
	_, err := c.api.ChannelMessageEditEmbed(channelID, messageID, ToEmbed(payload), discordgo.WithContext(ctx))
	return mapError("edit", err, domain.ErrMessageNotFound)
}

// FetchUser obtiene un usuario por ID.
func (c *Client) FetchUser(ctx context.Context, userID string) (entity.User, error) {
	u, err := c.api.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		return entity.User{}, mapError("user", err, domain.ErrUserNotFound)
	}
	return entity.User{ID: u.ID, Username: u.String()}, nil
}

// SendDirect abre (o reutiliza) el canal privado con el usuario y envía el embed.
func (c *Client) SendDirect(ctx context.Context, userID string, payload entity.DisplayPayload) error {
	dm, err := c.api.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return mapError("dm channel", err, domain.ErrUserNotFound)
	}
	_, err = c.api.ChannelMessageSendEmbed(dm.ID, ToEmbed(payload), discordgo.WithContext(ctx))
	return mapError("dm send", err, nil)
}

// GuildAvailable consulta primero la caché de estado y luego la API.
func (c *Client) GuildAvailable(ctx context.Context, guildID string) bool {
	if c.state != nil {
		if _, err := c.state.Guild(guildID); err == nil {
			return true
		}
	}
	_, err := c.api.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		c.log.Debug().Err(err).Str("guild_id", guildID).Msg("servidor no disponible")
		return false
	}
	return true
}

// RegisterCommands sobrescribe el conjunto de comandos; guildID "" = global.
func (c *Client) RegisterCommands(ctx context.Context, guildID string) error {
	_, err := c.api.ApplicationCommandBulkOverwrite(c.selfID(), guildID, c.commands, discordgo.WithContext(ctx))
	return mapError("register commands", err, nil)
}

// DeferReply reconoce la interacción (respuesta diferida, efímera si se pide).
func (c *Client) DeferReply(ctx context.Context, i *discordgo.Interaction, ephemeral bool) error {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{},
	}
	if ephemeral {
		resp.Data.Flags = discordgo.MessageFlagsEphemeral
	}
	return mapError("defer", c.api.InteractionRespond(i, resp, discordgo.WithContext(ctx)), nil)
}

// EditReply completa la respuesta diferida con el texto final.
func (c *Client) EditReply(ctx context.Context, i *discordgo.Interaction, content string) error {
	_, err := c.api.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &content}, discordgo.WithContext(ctx))
	return mapError("edit reply", err, nil)
}
