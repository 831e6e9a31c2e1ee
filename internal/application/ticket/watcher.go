package ticket

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/stock-bot/internal/domain/entity"
	"github.com/jhoicas/stock-bot/pkg/logger"
)

// Las herramientas de tickets suelen incluir el snowflake del usuario en el nombre del canal.
var snowflakeInName = regexp.MustCompile(`\d{17,19}`)

const alertColor = 0x00AAFF

// Notifier operaciones de plataforma que necesita el watcher.
type Notifier interface {
	FetchUser(ctx context.Context, userID string) (entity.User, error)
	SendDirect(ctx context.Context, userID string, payload entity.DisplayPayload) error
}

// Outcome desenlace de procesar un evento de canal creado.
type Outcome string

const (
	OutcomeIgnored     Outcome = "ignored"
	OutcomeNoRecipient Outcome = "no_recipient"
	OutcomeAlerted     Outcome = "alerted"
	OutcomeFailed      Outcome = "failed"
)

// Watcher avisa por DM cuando se crea un canal bajo la categoría de tickets.
type Watcher struct {
	cfg      entity.TicketWatchConfig
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewWatcher construye el watcher.
func NewWatcher(cfg entity.TicketWatchConfig, notifier Notifier, log *logger.Logger) *Watcher {
	return &Watcher{cfg: cfg, notifier: notifier, log: log.Named("ticket"), now: time.Now}
}

// OnChannelCreated procesa una notificación de canal creado. Nunca propaga errores ni pánicos:
// una alerta perdida no debe afectar a otros eventos.
func (w *Watcher) OnChannelCreated(ctx context.Context, ch entity.CreatedChannel) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Interface("panic", r).Str("channel_id", ch.ID).Msg("pánico en el watcher de tickets")
			out = OutcomeFailed
		}
	}()

	if w.cfg.CategoryID == "" || ch.ParentID != w.cfg.CategoryID {
		return OutcomeIgnored
	}
	log := w.log.With().Str("channel_id", ch.ID).Str("channel", ch.Name).Logger()
	if w.cfg.AlertUserID == "" {
		log.Info().Msg("alert_user_id no configurado; se omite el DM del ticket")
		return OutcomeNoRecipient
	}

	if _, err := w.notifier.FetchUser(ctx, w.cfg.AlertUserID); err != nil {
		log.Warn().Err(err).Str("alert_user_id", w.cfg.AlertUserID).Msg("no se pudo obtener el usuario de alertas")
		return OutcomeFailed
	}

	payload := w.buildAlert(ctx, ch)
	if err := w.notifier.SendDirect(ctx, w.cfg.AlertUserID, payload); err != nil {
		log.Warn().Err(err).Msg("no se pudo enviar el DM del ticket (¿DMs cerrados?)")
		return OutcomeFailed
	}
	log.Info().Msg("DM enviado por ticket nuevo")
	return OutcomeAlerted
}

func (w *Watcher) buildAlert(ctx context.Context, ch entity.CreatedChannel) entity.DisplayPayload {
	payload := entity.DisplayPayload{
		Title:       "🎟️ New Ticket Opened",
		Description: "A new ticket was created: " + ch.Mention(),
		Color:       alertColor,
		Timestamp:   w.now().UTC(),
		Fields: []entity.DisplayField{
			{Name: "Channel", Value: ch.Name, Inline: true},
		},
	}
	if opener := ExtractUserID(ch.Name); opener != "" {
		payload.Fields = append(payload.Fields, entity.DisplayField{
			Name:   "Opened By",
			Value:  w.attribution(ctx, opener),
			Inline: true,
		})
	}
	return payload
}

// attribution "usuario (id)" si el ID se resuelve; si no, el ID crudo.
func (w *Watcher) attribution(ctx context.Context, userID string) string {
	u, err := w.notifier.FetchUser(ctx, userID)
	if err != nil {
		w.log.Debug().Err(err).Str("user_id", userID).Msg("no se pudo resolver el autor del ticket")
		return "User ID " + userID
	}
	return fmt.Sprintf("%s (%s)", u.Username, u.ID)
}

// ExtractUserID primera secuencia de 17 a 19 dígitos del nombre del canal, o "".
func ExtractUserID(channelName string) string {
	return snowflakeInName.FindString(strings.TrimSpace(channelName))
}
