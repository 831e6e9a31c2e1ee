package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/jhoicas/stock-bot/internal/application/dto"
	"github.com/jhoicas/stock-bot/internal/application/ticket"
	"github.com/jhoicas/stock-bot/internal/domain/entity"
	infradiscord "github.com/jhoicas/stock-bot/internal/infrastructure/discord"
	"github.com/jhoicas/stock-bot/pkg/logger"
)

// StockCommands superficie de comandos (la implementa *inventory.StockUseCase).
type StockCommands interface {
	AddStock(ctx context.Context, who entity.Identity, product string, amount int) dto.Reply
	RemoveStock(ctx context.Context, who entity.Identity, product string, amount int) dto.Reply
	ResetStock(ctx context.Context, who entity.Identity) dto.Reply
	ForceRefresh(ctx context.Context, who entity.Identity) dto.Reply
	ListStock(ctx context.Context, who entity.Identity) dto.Reply
	GetStatus(ctx context.Context, product string) dto.Reply
}

// ChannelWatcher consumidor de eventos de canal creado (lo implementa *ticket.Watcher).
type ChannelWatcher interface {
	OnChannelCreated(ctx context.Context, ch entity.CreatedChannel) ticket.Outcome
}

// Responder responde a interacciones (lo implementa *infrastructure/discord.Client).
type Responder interface {
	DeferReply(ctx context.Context, i *discordgo.Interaction, ephemeral bool) error
	EditReply(ctx context.Context, i *discordgo.Interaction, content string) error
}

// Handler enruta eventos del gateway a los casos de uso.
type Handler struct {
	ctx       context.Context
	stock     StockCommands
	watcher   ChannelWatcher
	responder Responder
	log       *logger.Logger
}

// NewHandler construye el handler. ctx se cancela al apagar el proceso.
func NewHandler(ctx context.Context, stock StockCommands, watcher ChannelWatcher, responder Responder, log *logger.Logger) *Handler {
	return &Handler{ctx: ctx, stock: stock, watcher: watcher, responder: responder, log: log.Named("handler")}
}

// Register engancha los handlers en la sesión.
func (h *Handler) Register(s *discordgo.Session) {
	s.AddHandler(h.onInteractionCreate)
	s.AddHandler(h.onChannelCreate)
}

func (h *Handler) onInteractionCreate(_ *discordgo.Session, ev *discordgo.InteractionCreate) {
	h.HandleInteraction(ev.Interaction)
}

func (h *Handler) onChannelCreate(_ *discordgo.Session, ev *discordgo.ChannelCreate) {
	h.HandleChannelCreate(ev.Channel)
}

// HandleInteraction acusa recibo (diferido y efímero), ejecuta el comando y completa la respuesta.
// Ningún fallo de una invocación sale de aquí.
func (h *Handler) HandleInteraction(i *discordgo.Interaction) {
	defer h.recoverEvent("interaction")
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	name := i.ApplicationCommandData().Name
	if err := h.responder.DeferReply(h.ctx, i, true); err != nil {
		h.log.Warn().Err(err).Str("command", name).Msg("no se pudo reconocer la interacción")
		return
	}
	reply := h.Dispatch(h.ctx, i)
	if err := h.responder.EditReply(h.ctx, i, reply.Content); err != nil {
		h.log.Warn().Err(err).Str("command", name).Str("outcome", string(reply.Outcome)).Msg("no se pudo responder la interacción")
	}
}

// Dispatch ejecuta el comando de la interacción y devuelve la respuesta.
func (h *Handler) Dispatch(ctx context.Context, i *discordgo.Interaction) dto.Reply {
	data := i.ApplicationCommandData()
	opts := optionMap(data.Options)
	who := IdentityOf(i)

	switch data.Name {
	case infradiscord.CommandAddStock:
		return h.stock.AddStock(ctx, who, stringOpt(opts, infradiscord.OptionProduct), intOpt(opts, infradiscord.OptionAmount))
	case infradiscord.CommandRemoveStock:
		return h.stock.RemoveStock(ctx, who, stringOpt(opts, infradiscord.OptionProduct), intOpt(opts, infradiscord.OptionAmount))
	case infradiscord.CommandResetStock:
		return h.stock.ResetStock(ctx, who)
	case infradiscord.CommandRestockMessage:
		return h.stock.ForceRefresh(ctx, who)
	case infradiscord.CommandListStock:
		return h.stock.ListStock(ctx, who)
	case infradiscord.CommandGetStatus:
		return h.stock.GetStatus(ctx, stringOpt(opts, infradiscord.OptionProduct))
	default:
		return dto.Reply{Outcome: dto.OutcomeUnknownCommand, Content: "⚠️ Unknown command.", Ephemeral: true}
	}
}

// HandleChannelCreate pasa los canales de servidor al watcher de tickets.
func (h *Handler) HandleChannelCreate(ch *discordgo.Channel) {
	defer h.recoverEvent("channel_create")
	if ch == nil || ch.GuildID == "" {
		return
	}
	out := h.watcher.OnChannelCreated(h.ctx, entity.CreatedChannel{
		ID:       ch.ID,
		GuildID:  ch.GuildID,
		Name:     ch.Name,
		ParentID: ch.ParentID,
	})
	h.log.Debug().Str("channel_id", ch.ID).Str("outcome", string(out)).Msg("canal creado")
}

// IdentityOf identidad del invocador: miembro con roles si la interacción viene de un servidor.
func IdentityOf(i *discordgo.Interaction) entity.Identity {
	if i.GuildID != "" && i.Member != nil && i.Member.User != nil {
		return entity.ResolvedMember{ID: i.Member.User.ID, Roles: append([]string(nil), i.Member.Roles...)}
	}
	if i.User != nil {
		return entity.UnresolvedIdentity{ID: i.User.ID}
	}
	if i.Member != nil && i.Member.User != nil {
		return entity.UnresolvedIdentity{ID: i.Member.User.ID}
	}
	return entity.UnresolvedIdentity{}
}

func (h *Handler) recoverEvent(kind string) {
	if r := recover(); r != nil {
		h.log.Error().Interface("panic", r).Str("event", kind).Msg("pánico procesando evento")
	}
}

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		if o != nil {
			m[o.Name] = o
		}
	}
	return m
}

func stringOpt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	o, ok := opts[name]
	if !ok || o.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return o.StringValue()
}

func intOpt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) int {
	o, ok := opts[name]
	if !ok || o.Type != discordgo.ApplicationCommandOptionInteger {
		return 0
	}
	return int(o.IntValue())
}
