package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-bot/internal/application/dto"
	"github.com/jhoicas/stock-bot/internal/domain/entity"
)

// StockHandler expone el estado binario de cada producto (sin cantidades).
type StockHandler struct {
	stock StockReader
}

// NewStockHandler construye el handler.
func NewStockHandler(stock StockReader) *StockHandler {
	return &StockHandler{stock: stock}
}

// List godoc
// @Summary      Estado público del stock
// @Tags         stock
// @Produce      json
// @Success      200  {array}   dto.ProductStatusDTO
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	entries := h.stock.Snapshot()
	out := make([]dto.ProductStatusDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ProductStatusDTO{Product: e.Product, InStock: entity.InStock(e.Count)})
	}
	return c.JSON(out)
}
