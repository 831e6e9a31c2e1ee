package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stock-bot/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Textos y colores fijos del mensaje de estado.
const (
	StatusTitle       = "The Golden Prism Store"
	StatusDescription = "This message is updated automatically."
	StatusColor       = 0x00AAFF

	GlyphInStock    = "🟢 In Stock"
	GlyphOutOfStock = "🔴 Out of Stock"
)

// RenderStatus construye el embed de estado a partir del ledger (servicio de dominio puro).
// Una sección por familia y una línea por plan; un producto ausente cuenta como 0.
// Solo Timestamp varía entre dos renders del mismo ledger.
func RenderStatus(ledger *entity.Ledger, now time.Time) entity.DisplayPayload {
	payload := entity.DisplayPayload{
		Title:       StatusTitle,
		Description: StatusDescription,
		Color:       StatusColor,
		Timestamp:   now.UTC(),
	}
	for _, family := range entity.Families {
		lines := make([]string, 0, 2)
		for _, p := range entity.ProductsOf(family) {
			lines = append(lines, fmt.Sprintf("%s — %s — **%s**", p.Tier, Glyph(ledger.Count(p.Name)), FormatPrice(p.Price)))
		}
		payload.Fields = append(payload.Fields, entity.DisplayField{
			Name:   "《" + family + ":》",
			Value:  strings.Join(lines, "\n"),
			Inline: false,
		})
	}
	return payload
}

// Glyph estado binario para una cantidad.
func Glyph(count int) string {
	if entity.InStock(count) {
		return GlyphInStock
	}
	return GlyphOutOfStock
}

// FormatPrice "$80" para enteros, "$12.50" con centavos.
func FormatPrice(price decimal.Decimal) string {
	if price.Equal(price.Truncate(0)) {
		return "$" + price.StringFixed(0)
	}
	return "$" + price.StringFixed(2)
}

// StatusLine línea de estado para respuestas de comandos: producto seguido del glifo.
func StatusLine(product string, count int) string {
	return product + " — " + Glyph(count)
}
