package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-bot/internal/application/dto"
	"github.com/jhoicas/stock-bot/internal/application/reconcile"
	"github.com/jhoicas/stock-bot/internal/domain"
	"github.com/jhoicas/stock-bot/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-bot/internal/domain/inventory"
	"github.com/jhoicas/stock-bot/internal/domain/repository"
	"github.com/jhoicas/stock-bot/pkg/logger"
)

// Textos de respuesta de los comandos.
const (
	msgForbidden       = "⛔ You are not authorized to use this command."
	msgProductNotFound = "⚠️ Product not found."
	msgReset           = "🧹 All stock reset to 0."
	msgRefreshed       = "✅ Stock message refreshed."
	msgNoProducts      = "No products defined."
)

// StockUseCase superficie de comandos sobre el ledger: add/remove/reset/refresh/list/status.
// Es dueño del ledger; un mutex cubre lectura-modificación-persistencia y otro serializa
// las publicaciones para que la última siempre refleje el estado más reciente.
type StockUseCase struct {
	mu     sync.Mutex
	ledger *entity.Ledger

	publishMu sync.Mutex
	publisher StatusPublisher
	target    entity.ChannelTarget

	repo repository.StockRepository
	gate Authorizer
	log  *logger.Logger
	now  func() time.Time
}

// NewStockUseCase construye el caso de uso sobre un ledger ya cargado.
func NewStockUseCase(
	ledger *entity.Ledger,
	repo repository.StockRepository,
	gate Authorizer,
	publisher StatusPublisher,
	target entity.ChannelTarget,
	log *logger.Logger,
) *StockUseCase {
	return &StockUseCase{
		ledger:    ledger,
		repo:      repo,
		gate:      gate,
		publisher: publisher,
		target:    target,
		log:       log.Named("stock"),
		now:       time.Now,
	}
}

// AddStock suma amount al producto (coincidencia sin distinguir mayúsculas).
func (uc *StockUseCase) AddStock(ctx context.Context, who entity.Identity, product string, amount int) dto.Reply {
	return uc.mutateProduct(ctx, who, "addstock", product, amount, func(l *entity.Ledger, key string) {
		l.Add(key, amount)
	}, "✅ Added **%d** units to **%s**.")
}

// RemoveStock resta amount con piso en 0.
func (uc *StockUseCase) RemoveStock(ctx context.Context, who entity.Identity, product string, amount int) dto.Reply {
	return uc.mutateProduct(ctx, who, "removestock", product, amount, func(l *entity.Ledger, key string) {
		l.Remove(key, amount)
	}, "✅ Removed **%d** units from **%s**.")
}

func (uc *StockUseCase) mutateProduct(
	ctx context.Context,
	who entity.Identity,
	command, product string,
	amount int,
	apply func(l *entity.Ledger, key string),
	format string,
) dto.Reply {
	log := uc.invocationLog(who, command)
	if !uc.gate.IsAuthorized(who) {
		return uc.forbidden(log)
	}

	uc.mu.Lock()
	key, ok := uc.ledger.Match(product)
	if !ok {
		valid := strings.Join(uc.ledger.Keys(), ", ")
		uc.mu.Unlock()
		log.Info().Err(domain.ErrUnknownProduct).Str("product", product).Msg("producto desconocido")
		return rejected(dto.OutcomeUnknownProduct, fmt.Sprintf("⚠️ Invalid product name.\nAvailable products: `%s`", valid), domain.ErrUnknownProduct)
	}
	apply(uc.ledger, key)
	count := uc.ledger.Count(key)
	uc.persistLocked(log)
	uc.mu.Unlock()

	log.Info().Str("product", key).Int("amount", amount).Int("count", count).Msg("stock actualizado")
	reply := ephemeral(dto.OutcomeApplied, fmt.Sprintf(format, amount, key))
	reply.Reconciled = string(uc.publish(ctx))
	return reply
}

// ResetStock pone todo el stock en 0.
func (uc *StockUseCase) ResetStock(ctx context.Context, who entity.Identity) dto.Reply {
	log := uc.invocationLog(who, "resetstock")
	if !uc.gate.IsAuthorized(who) {
		return uc.forbidden(log)
	}

	uc.mu.Lock()
	uc.ledger.Reset()
	uc.persistLocked(log)
	uc.mu.Unlock()

	log.Info().Msg("stock reiniciado")
	reply := ephemeral(dto.OutcomeReset, msgReset)
	reply.Reconciled = string(uc.publish(ctx))
	return reply
}

// ForceRefresh reconcilia el mensaje de estado sin tocar el ledger.
func (uc *StockUseCase) ForceRefresh(ctx context.Context, who entity.Identity) dto.Reply {
	log := uc.invocationLog(who, "restockmessage")
	if !uc.gate.IsAuthorized(who) {
		return uc.forbidden(log)
	}
	reply := ephemeral(dto.OutcomeRefreshed, msgRefreshed)
	reply.Reconciled = string(uc.publish(ctx))
	return reply
}

// ListStock estado binario de todos los productos (privilegiado, sin reconciliar).
func (uc *StockUseCase) ListStock(_ context.Context, who entity.Identity) dto.Reply {
	log := uc.invocationLog(who, "liststock")
	if !uc.gate.IsAuthorized(who) {
		return uc.forbidden(log)
	}
	entries := uc.Snapshot()
	if len(entries) == 0 {
		return ephemeral(dto.OutcomeListed, msgNoProducts)
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Product+": "+domaininv.Glyph(e.Count))
	}
	return ephemeral(dto.OutcomeListed, strings.Join(lines, "\n"))
}

// GetStatus lectura pública; la clave debe coincidir exactamente.
func (uc *StockUseCase) GetStatus(_ context.Context, product string) dto.Reply {
	uc.mu.Lock()
	count, ok := uc.ledger.Get(product)
	uc.mu.Unlock()
	if !ok {
		return rejected(dto.OutcomeUnknownProduct, msgProductNotFound, domain.ErrUnknownProduct)
	}
	return ephemeral(dto.OutcomeStatus, domaininv.StatusLine(product, count))
}

// Refresh reconciliación interna (arranque); no pasa por el gate.
func (uc *StockUseCase) Refresh(ctx context.Context) reconcile.Result {
	return uc.publish(ctx)
}

// Snapshot copia del contenido del ledger.
func (uc *StockUseCase) Snapshot() []entity.StockEntry {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.ledger.Entries()
}

// publish renderiza el estado actual y reconcilia. El resultado no cambia la respuesta al usuario.
func (uc *StockUseCase) publish(ctx context.Context) reconcile.Result {
	uc.publishMu.Lock()
	defer uc.publishMu.Unlock()

	uc.mu.Lock()
	snapshot := uc.ledger.Clone()
	uc.mu.Unlock()

	res, err := uc.publisher.Reconcile(ctx, uc.target, domaininv.RenderStatus(snapshot, uc.now()))
	if err != nil {
		uc.log.Warn().Err(err).Str("result", string(res)).Msg("no se pudo actualizar el mensaje de stock")
	}
	return res
}

// persistLocked guarda el ledger; un fallo se registra y el ledger en memoria sigue mandando.
// Requiere uc.mu tomado.
func (uc *StockUseCase) persistLocked(log *logger.Logger) {
	if err := uc.repo.Save(uc.ledger); err != nil {
		log.Error().Err(err).Msg("no se pudo persistir el stock")
	}
}

func (uc *StockUseCase) invocationLog(who entity.Identity, command string) *logger.Logger {
	userID := ""
	if who != nil {
		userID = who.UserID()
	}
	return logger.FromZerolog(uc.log.With().
		Str("invocation_id", uuid.NewString()).
		Str("command", command).
		Str("user_id", userID).
		Logger())
}

func ephemeral(outcome dto.Outcome, content string) dto.Reply {
	return dto.Reply{Outcome: outcome, Content: content, Ephemeral: true}
}

func rejected(outcome dto.Outcome, content string, err error) dto.Reply {
	reply := ephemeral(outcome, content)
	reply.Err = err
	return reply
}

// forbidden denegación esperada: se registra en info, no como error.
func (uc *StockUseCase) forbidden(log *logger.Logger) dto.Reply {
	log.Info().Err(domain.ErrUnauthorized).Msg("comando denegado")
	return rejected(dto.OutcomeForbidden, msgForbidden, domain.ErrUnauthorized)
}
