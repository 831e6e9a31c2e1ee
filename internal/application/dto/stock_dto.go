package dto

// Outcome desenlace de un comando, visible para el invocador.
type Outcome string

const (
	OutcomeForbidden      Outcome = "forbidden"
	OutcomeUnknownProduct Outcome = "unknown_product"
	OutcomeApplied        Outcome = "applied"
	OutcomeReset          Outcome = "reset"
	OutcomeRefreshed      Outcome = "refreshed"
	OutcomeListed         Outcome = "listed"
	OutcomeStatus         Outcome = "status"
	OutcomeUnknownCommand Outcome = "unknown_command"
)

// Reply respuesta a un comando. Reconciled queda vacío si el comando no disparó reconciliación.
// Err lleva el sentinel de dominio en los rechazos (domain.ErrUnauthorized, domain.ErrUnknownProduct).
type Reply struct {
	Outcome    Outcome
	Content    string
	Ephemeral  bool
	Reconciled string
	Err        error
}

// ProductStatusDTO estado binario de un producto (superficie HTTP).
type ProductStatusDTO struct {
	Product string `json:"product"`
	InStock bool   `json:"in_stock"`
}
