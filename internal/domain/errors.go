package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrConfigMissing    = errors.New("archivo de configuración ausente")
	ErrConfigInvalid    = errors.New("configuración inválida")
	ErrStorageIO        = errors.New("error de E/S en almacenamiento")
	ErrChannelNotFound  = errors.New("canal no encontrado")
	ErrPermissionDenied = errors.New("permisos insuficientes en el canal")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrUnknownProduct   = errors.New("producto desconocido")
	ErrPlatformCall     = errors.New("fallo en llamada a la plataforma")
	ErrGuildUnavailable = errors.New("servidor no disponible")
	ErrMessageNotFound  = errors.New("mensaje no encontrado")
	ErrUserNotFound     = errors.New("usuario no encontrado")
)
