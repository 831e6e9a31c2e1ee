package entity

import "github.com/shopspring/decimal"

// Familias y planes de facturación de los productos.
const (
	FamilyHex = "Hex"
	FamilySRC = "SRC"

	TierLifetime = "Lifetime"
	TierMonthly  = "Monthly"
)

// Nombres canónicos (claves del ledger).
const (
	ProductHexLifetime = "Hex Lifetime"
	ProductHexMonthly  = "Hex Monthly"
	ProductSRCLifetime = "SRC Lifetime"
	ProductSRCMonthly  = "SRC Monthly"
)

// Product producto vendible: familia + plan, con precio fijo en USD.
type Product struct {
	Name   string
	Family string
	Tier   string
	Price  decimal.Decimal
}

// Catalogue catálogo fijo, en el orden de despliegue del mensaje de estado.
var Catalogue = []Product{
	{Name: ProductHexLifetime, Family: FamilyHex, Tier: TierLifetime, Price: decimal.NewFromInt(80)},
	{Name: ProductHexMonthly, Family: FamilyHex, Tier: TierMonthly, Price: decimal.NewFromInt(13)},
	{Name: ProductSRCLifetime, Family: FamilySRC, Tier: TierLifetime, Price: decimal.NewFromInt(65)},
	{Name: ProductSRCMonthly, Family: FamilySRC, Tier: TierMonthly, Price: decimal.NewFromInt(12)},
}

// Families familias en orden de despliegue.
var Families = []string{FamilyHex, FamilySRC}

// ProductsOf devuelve los productos de una familia, en orden de catálogo.
func ProductsOf(family string) []Product {
	var out []Product
	for _, p := range Catalogue {
		if p.Family == family {
			out = append(out, p)
		}
	}
	return out
}
