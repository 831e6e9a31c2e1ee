package startup

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-bot/internal/application/reconcile"
	"github.com/jhoicas/stock-bot/internal/domain"
	"github.com/jhoicas/stock-bot/pkg/logger"
)

// Valores por defecto del reintento de resolución del servidor.
const (
	DefaultAttempts = 5
	DefaultInterval = 2 * time.Second
)

// Platform lo que el arranque necesita de la plataforma.
type Platform interface {
	// GuildAvailable true si el servidor ya está visible para el bot.
	GuildAvailable(ctx context.Context, guildID string) bool
	// RegisterCommands registra los comandos en el servidor; guildID "" = registro global.
	RegisterCommands(ctx context.Context, guildID string) error
}

// Refresher reconciliación inicial del mensaje de estado (lo implementa *inventory.StockUseCase).
type Refresher interface {
	Refresh(ctx context.Context) reconcile.Result
}

// Bootstrapper secuencia de "ready": resolver servidor, registrar comandos, publicar estado.
type Bootstrapper struct {
	platform  Platform
	refresher Refresher
	guildID   string
	log       *logger.Logger

	Attempts int
	Interval time.Duration
}

// NewBootstrapper construye el arranque con 5 intentos cada 2 s.
func NewBootstrapper(platform Platform, refresher Refresher, guildID string, log *logger.Logger) *Bootstrapper {
	return &Bootstrapper{
		platform:  platform,
		refresher: refresher,
		guildID:   guildID,
		log:       log.Named("startup"),
		Attempts:  DefaultAttempts,
		Interval:  DefaultInterval,
	}
}

// Run intenta resolver el servidor un número acotado de veces. Si aparece registra los comandos
// en él y reconcilia; si no, registra globalmente y devuelve ErrGuildUnavailable (modo degradado:
// el proceso sigue vivo y los comandos registrados).
func (b *Bootstrapper) Run(ctx context.Context) error {
	if b.waitForGuild(ctx) {
		if err := b.platform.RegisterCommands(ctx, b.guildID); err != nil {
			b.log.Error().Err(err).Msg("no se pudieron registrar los comandos en el servidor")
			return err
		}
		b.log.Info().Str("guild_id", b.guildID).Msg("comandos registrados (servidor)")
		res := b.refresher.Refresh(ctx)
		b.log.Info().Str("result", string(res)).Msg("mensaje de stock inicial")
		return nil
	}

	if err := b.platform.RegisterCommands(ctx, ""); err != nil {
		b.log.Error().Err(err).Msg("no se pudieron registrar los comandos globalmente")
	} else {
		b.log.Info().Msg("comandos registrados globalmente (respaldo)")
	}
	b.log.Warn().Str("guild_id", b.guildID).Msg("servidor no encontrado tras los reintentos")
	return fmt.Errorf("%w: %s", domain.ErrGuildUnavailable, b.guildID)
}

func (b *Bootstrapper) waitForGuild(ctx context.Context) bool {
	if b.guildID == "" {
		return false
	}
	for attempt := 1; attempt <= b.Attempts; attempt++ {
		if b.platform.GuildAvailable(ctx, b.guildID) {
			return true
		}
		if attempt == b.Attempts {
			break
		}
		b.log.Info().Int("attempt", attempt).Int("of", b.Attempts).Dur("retry_in", b.Interval).
			Msg("servidor aún no disponible; reintentando")
		select {
		case <-time.After(b.Interval):
		case <-ctx.Done():
			return false
		}
	}
	return false
}
