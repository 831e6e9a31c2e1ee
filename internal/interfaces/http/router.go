package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-bot/internal/application/dto"
	"github.com/jhoicas/stock-bot/internal/domain/entity"
)

// StockReader lectura del ledger (la implementa *inventory.StockUseCase).
type StockReader interface {
	Snapshot() []entity.StockEntry
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName string
	Stock   StockReader
}

// Router registra las rutas: salud del proceso y estado público del stock (solo lectura).
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")
	stockHandler := NewStockHandler(deps.Stock)
	api.Get("/stock", stockHandler.List)
}

// ErrorHandler responde los errores de fiber con dto.ErrorResponse.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(dto.ErrorResponse{
		Code:    errorCode(code),
		Message: err.Error(),
	})
}

func errorCode(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		return "INTERNAL_ERROR"
	}
}
