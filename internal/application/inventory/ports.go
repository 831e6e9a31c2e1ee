package inventory

import (
	"context"

	"github.com/jhoicas/stock-bot/internal/application/reconcile"
	"github.com/jhoicas/stock-bot/internal/domain/entity"
)

// StatusPublisher publica el mensaje de estado (lo implementa *reconcile.Reconciler).
type StatusPublisher interface {
	Reconcile(ctx context.Context, target entity.ChannelTarget, payload entity.DisplayPayload) (reconcile.Result, error)
}

// Authorizer decide si una identidad puede ejecutar comandos privilegiados (lo implementa *auth.Gate).
type Authorizer interface {
	IsAuthorized(who entity.Identity) bool
}
