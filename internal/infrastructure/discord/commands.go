package discord

import "github.com/bwmarrin/discordgo"

// Nombres de los comandos slash.
const (
	CommandAddStock       = "addstock"
	CommandRemoveStock    = "removestock"
	CommandRestockMessage = "restockmessage"
	CommandListStock      = "liststock"
	CommandGetStatus      = "getstatus"
	CommandResetStock     = "resetstock"

	OptionProduct = "product"
	OptionAmount  = "amount"
)

// Commands definición de los comandos que se registran en la plataforma.
func Commands() []*discordgo.ApplicationCommand {
	product := func(desc string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        OptionProduct,
			Description: desc,
			Required:    true,
		}
	}
	minAmount := 0.0
	amount := func(desc string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        OptionAmount,
			Description: desc,
			Required:    true,
			MinValue:    &minAmount,
		}
	}
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandAddStock,
			Description: "Add to a product's stock count.",
			Options:     []*discordgo.ApplicationCommandOption{product("Product name (case-insensitive)"), amount("Amount to add")},
		},
		{
			Name:        CommandRemoveStock,
			Description: "Remove from a product's stock count.",
			Options:     []*discordgo.ApplicationCommandOption{product("Product name (case-insensitive)"), amount("Amount to remove")},
		},
		{Name: CommandRestockMessage, Description: "Create or reset the persistent stock message."},
		{Name: CommandListStock, Description: "List all stock statuses (admin only)."},
		{
			Name:        CommandGetStatus,
			Description: "Get a single product's status.",
			Options:     []*discordgo.ApplicationCommandOption{product("Product name")},
		},
		{Name: CommandResetStock, Description: "Reset all stock to 0 (admin only)."},
	}
}
