package discord

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/jhoicas/stock-bot/internal/domain"
)

// mapError traduce errores REST de Discord a la taxonomía de dominio.
// notFound es el error a usar ante un 404 sin código específico.
func mapError(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) {
		if rest.Message != nil {
			switch rest.Message.Code {
			case discordgo.ErrCodeUnknownChannel:
				return fmt.Errorf("%w: %s: %v", domain.ErrChannelNotFound, op, err)
			case discordgo.ErrCodeUnknownMessage:
				return fmt.Errorf("%w: %s: %v", domain.ErrMessageNotFound, op, err)
			case discordgo.ErrCodeUnknownUser:
				return fmt.Errorf("%w: %s: %v", domain.ErrUserNotFound, op, err)
			case discordgo.ErrCodeMissingAccess, discordgo.ErrCodeMissingPermissions:
				return fmt.Errorf("%w: %s: %v", domain.ErrPermissionDenied, op, err)
			}
		}
		if notFound != nil && rest.Response != nil && rest.Response.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s: %v", notFound, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrPlatformCall, op, err)
}
