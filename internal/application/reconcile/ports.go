package reconcile

import (
	"context"

	"github.com/jhoicas/stock-bot/internal/domain/entity"
)

// ChannelAPI operaciones de canal que la reconciliación necesita de la plataforma.
// Las implementaciones devuelven domain.ErrChannelNotFound / domain.ErrMessageNotFound
// cuando corresponde y domain.ErrPlatformCall (envuelto) para cualquier otro fallo.
type ChannelAPI interface {
	// BotUserID identidad propia del bot.
	BotUserID() string
	// ResolveChannel devuelve el ID de canal utilizable para el destino configurado.
	ResolveChannel(ctx context.Context, target entity.ChannelTarget) (string, error)
	// CanPostEmbeds true si el bot puede enviar mensajes y embeds en el canal.
	CanPostEmbeds(ctx context.Context, channelID string) (bool, error)
	// RecentMessages hasta limit mensajes, del más nuevo al más viejo.
	RecentMessages(ctx context.Context, channelID string, limit int) ([]entity.Message, error)
	SendPayload(ctx context.Context, channelID string, payload entity.DisplayPayload) (string, error)
	EditPayload(ctx context.Context, channelID, messageID string, payload entity.DisplayPayload) error
}
