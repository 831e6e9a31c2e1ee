package repository

import "github.com/jhoicas/stock-bot/internal/domain/entity"

// StockRepository define el puerto de persistencia del ledger de stock.
// Save reescribe el documento completo; un error no invalida el ledger en memoria.
type StockRepository interface {
	Load() (*entity.Ledger, error)
	Save(ledger *entity.Ledger) error
}
