package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/jhoicas/stock-bot/internal/domain"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
)

// PlaceholderToken valor que se escribe en el config.json por defecto.
const PlaceholderToken = "YOUR_BOT_TOKEN_HERE"

// Límite de la API de historial por página.
const maxHistoryScan = 100

// Config agrupa la configuración del bot (documento JSON + variables de entorno STOCKBOT_*).
type Config struct {
	App     AppConfig
	Discord DiscordConfig
	Ticket  TicketConfig
	Files   FilesConfig
	HTTP    HTTPConfig
	Debug   bool
}

// AppConfig configuración general.
type AppConfig struct {
	Env  string // development, production
	Name string
}

// DiscordConfig conexión y destino del mensaje de estado.
type DiscordConfig struct {
	Token            string
	GuildID          string
	ChannelID        string
	AuthorizedRoles  []string
	HistoryScanLimit int // mensajes recientes revisados al buscar el mensaje propio (1..100)
}

// TicketConfig categoría vigilada y usuario que recibe las alertas por DM.
type TicketConfig struct {
	CategoryID  string
	AlertUserID string
}

// FilesConfig rutas de los documentos en disco.
type FilesConfig struct {
	ConfigPath string
	StockPath  string
	LogFile    string
}

// HTTPConfig superficie HTTP de salud; Addr vacío la desactiva.
type HTTPConfig struct {
	Addr string
}

// Enabled indica si hay que levantar el servidor HTTP.
func (c HTTPConfig) Enabled() bool { return c.Addr != "" }

// LogLevel nivel de log derivado del flag debug.
func (c Config) LogLevel() string {
	if c.Debug {
		return "debug"
	}
	return "info"
}

// Options rutas y overrides provenientes de la línea de comandos.
type Options struct {
	ConfigPath string
	StockPath  string
	LogFile    string
	HTTPAddr   string
}

// ParseFlags interpreta los flags del proceso.
func ParseFlags(name string, args []string) (Options, error) {
	var opts Options
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVarP(&opts.ConfigPath, "config", "c", "config.json", "ruta del documento de configuración")
	fs.StringVar(&opts.StockPath, "stock", "stock.json", "ruta del documento de stock")
	fs.StringVar(&opts.LogFile, "log-file", "debug.log", "log append-only (vacío = solo stdout)")
	fs.StringVar(&opts.HTTPAddr, "http-addr", "", "dirección del endpoint de salud (vacío = desactivado)")
	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Load lee config.json (se toleran comentarios) y aplica overrides de entorno STOCKBOT_*.
// Si el archivo no existe escribe uno por defecto y devuelve ErrConfigMissing.
// Un token ausente o de ejemplo devuelve ErrConfigInvalid.
func Load(opts Options) (*Config, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.json"
	}
	raw, err := os.ReadFile(opts.ConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		if werr := WriteDefault(opts.ConfigPath); werr != nil {
			return nil, fmt.Errorf("%w: %s no existe y no se pudo crear: %v", domain.ErrConfigMissing, opts.ConfigPath, werr)
		}
		return nil, fmt.Errorf("%w: se creó %s; complételo y reinicie", domain.ErrConfigMissing, opts.ConfigPath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrConfigInvalid, opts.ConfigPath, err)
	}

	doc, err := decodeDocument(jsonc.ToJSON(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrConfigInvalid, opts.ConfigPath, err)
	}

	v := viper.New()
	if err := v.MergeConfigMap(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
	}
	// STOCKBOT_TOKEN, STOCKBOT_GUILD_ID, etc. tienen prioridad sobre el archivo.
	v.SetEnvPrefix("STOCKBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "development", "env"),
			Name: getString(v, "stock-bot", "name"),
		},
		Discord: DiscordConfig{
			Token:            strings.TrimSpace(getString(v, "", "token")),
			GuildID:          getID(v, "guild_id", "guildId"),
			ChannelID:        getID(v, "channel_id", "stockChannelId", "channelId"),
			AuthorizedRoles:  getIDs(v, "authorized_roles", "authorizedRoles"),
			HistoryScanLimit: clamp(getInt(v, maxHistoryScan, "history_scan_limit", "historyScanLimit"), 1, maxHistoryScan),
		},
		Ticket: TicketConfig{
			CategoryID:  getID(v, "ticket_category_id", "ticketCategoryId"),
			AlertUserID: getID(v, "alert_user_id", "alertUserId"),
		},
		Files: FilesConfig{
			ConfigPath: opts.ConfigPath,
			StockPath:  firstNonEmpty(opts.StockPath, getString(v, "stock.json", "stock_path", "stockPath")),
			LogFile:    opts.LogFile,
		},
		HTTP: HTTPConfig{
			Addr: firstNonEmpty(opts.HTTPAddr, getString(v, "", "http_addr", "httpAddr")),
		},
		Debug: v.GetBool("debug"),
	}

	if cfg.Discord.Token == "" || strings.HasPrefix(cfg.Discord.Token, "YOUR_BOT_TOKEN") {
		return nil, fmt.Errorf("%w: el token en %s falta o es de ejemplo", domain.ErrConfigInvalid, opts.ConfigPath)
	}
	return cfg, nil
}

// WriteDefault escribe el documento de configuración de ejemplo.
func WriteDefault(path string) error {
	doc := map[string]any{
		"token":              PlaceholderToken,
		"guild_id":           0,
		"channel_id":         0,
		"authorized_roles":   []string{},
		"ticket_category_id": 0,
		"alert_user_id":      0,
		"debug":              true,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

// decodeDocument decodifica con UseNumber: los IDs de 17-19 dígitos no caben en float64.
func decodeDocument(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("se esperaba un objeto JSON")
	}
	return doc, nil
}

func lookup(v *viper.Viper, keys ...string) (any, bool) {
	for _, k := range keys {
		if v.IsSet(k) {
			return v.Get(k), true
		}
	}
	return nil, false
}

func getString(v *viper.Viper, def string, keys ...string) string {
	if val, ok := lookup(v, keys...); ok {
		if s := toString(val); s != "" {
			return s
		}
	}
	return def
}

func getInt(v *viper.Viper, def int, keys ...string) int {
	val, ok := lookup(v, keys...)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(toString(val))
	if err != nil {
		return def
	}
	return n
}

// getID normaliza un snowflake; 0 o vacío significa "no configurado".
func getID(v *viper.Viper, keys ...string) string {
	val, ok := lookup(v, keys...)
	if !ok {
		return ""
	}
	return normalizeID(toString(val))
}

func getIDs(v *viper.Viper, keys ...string) []string {
	val, ok := lookup(v, keys...)
	if !ok {
		return nil
	}
	var items []any
	switch t := val.(type) {
	case []any:
		items = t
	case []string:
		for _, s := range t {
			items = append(items, s)
		}
	case string:
		// Desde entorno: "123,456"
		for _, s := range strings.Split(t, ",") {
			items = append(items, s)
		}
	default:
		items = []any{t}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if id := normalizeID(toString(it)); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func toString(val any) string {
	switch t := val.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func normalizeID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if _, err := strconv.ParseUint(s, 10, 64); err != nil {
		return ""
	}
	if strings.TrimLeft(s, "0") == "" {
		return ""
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}

func clamp(n, lo, hi int) int {
	return min(max(n, lo), hi)
}
