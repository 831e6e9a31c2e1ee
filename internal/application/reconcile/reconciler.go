package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/stock-bot/internal/domain"
	"github.com/jhoicas/stock-bot/internal/domain/entity"
	"github.com/jhoicas/stock-bot/pkg/logger"
)

// DefaultScanLimit ventana de historial revisada al buscar el mensaje propio.
const DefaultScanLimit = 100

// Result desenlace de una reconciliación.
type Result string

const (
	ResultUpdated          Result = "updated"
	ResultCreated          Result = "created"
	ResultChannelNotFound  Result = "channel_not_found"
	ResultPermissionDenied Result = "permission_denied"
	ResultFailed           Result = "failed"
)

// Reconciler mantiene un único mensaje de estado "vivo" por canal: edita el mensaje
// más reciente del bot dentro de la ventana de historial o, si no hay, publica uno nuevo.
// No guarda el ID del mensaje; lo redescubre en cada llamada, así un mensaje borrado a mano
// se recrea en la siguiente reconciliación.
type Reconciler struct {
	api       ChannelAPI
	scanLimit int
	log       *logger.Logger

	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewReconciler construye el reconciliador. scanLimit <= 0 usa DefaultScanLimit.
func NewReconciler(api ChannelAPI, scanLimit int, log *logger.Logger) *Reconciler {
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}
	return &Reconciler{
		api:       api,
		scanLimit: scanLimit,
		log:       log.Named("reconcile"),
		locks:     make(map[string]chan struct{}),
	}
}

// Reconcile sincroniza el mensaje de estado del canal destino con payload.
// Las llamadas sobre un mismo canal se serializan; si dos corrieran a la vez ambas podrían
// no encontrar mensaje y publicar dos.
func (r *Reconciler) Reconcile(ctx context.Context, target entity.ChannelTarget, payload entity.DisplayPayload) (Result, error) {
	unlock, err := r.lock(ctx, target.ChannelID)
	if err != nil {
		return ResultFailed, err
	}
	defer unlock()

	res, err := r.reconcile(ctx, target, payload)
	ev := r.log.Info()
	if err != nil {
		ev = r.log.Warn().Err(err)
	}
	ev.Str("channel_id", target.ChannelID).Str("result", string(res)).Msg("reconciliación del mensaje de stock")
	return res, err
}

func (r *Reconciler) reconcile(ctx context.Context, target entity.ChannelTarget, payload entity.DisplayPayload) (Result, error) {
	channelID, err := r.api.ResolveChannel(ctx, target)
	if err != nil {
		if errors.Is(err, domain.ErrChannelNotFound) {
			return ResultChannelNotFound, err
		}
		return ResultFailed, err
	}

	ok, err := r.api.CanPostEmbeds(ctx, channelID)
	if err != nil {
		return ResultFailed, err
	}
	if !ok {
		return ResultPermissionDenied, fmt.Errorf("%w: canal %s", domain.ErrPermissionDenied, channelID)
	}

	own, err := r.findOwnMessage(ctx, channelID)
	if err != nil {
		return ResultFailed, err
	}

	if own != "" {
		err := r.api.EditPayload(ctx, channelID, own, payload)
		if err == nil {
			return ResultUpdated, nil
		}
		if !errors.Is(err, domain.ErrMessageNotFound) {
			return ResultFailed, err
		}
		// Borrado entre el escaneo y la edición: se publica uno nuevo.
		r.log.Debug().Str("message_id", own).Msg("mensaje propio desapareció antes de editar")
	}

	if _, err := r.api.SendPayload(ctx, channelID, payload); err != nil {
		return ResultFailed, err
	}
	return ResultCreated, nil
}

// findOwnMessage primer mensaje (del más nuevo al más viejo) escrito por el bot; "" si no hay.
func (r *Reconciler) findOwnMessage(ctx context.Context, channelID string) (string, error) {
	msgs, err := r.api.RecentMessages(ctx, channelID, r.scanLimit)
	if err != nil {
		return "", err
	}
	self := r.api.BotUserID()
	for i, m := range msgs {
		if i >= r.scanLimit {
			break
		}
		if m.AuthorID == self {
			return m.ID, nil
		}
	}
	return "", nil
}

// lock exclusión por canal, cancelable por contexto.
func (r *Reconciler) lock(ctx context.Context, channelID string) (func(), error) {
	r.mu.Lock()
	ch, ok := r.locks[channelID]
	if !ok {
		ch = make(chan struct{}, 1)
		r.locks[channelID] = ch
	}
	r.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
