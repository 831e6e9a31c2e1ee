package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/stock-bot/internal/application/auth"
	"github.com/jhoicas/stock-bot/internal/application/inventory"
	"github.com/jhoicas/stock-bot/internal/application/reconcile"
	"github.com/jhoicas/stock-bot/internal/application/startup"
	"github.com/jhoicas/stock-bot/internal/application/ticket"
	"github.com/jhoicas/stock-bot/internal/domain"
	"github.com/jhoicas/stock-bot/internal/domain/entity"
	"github.com/jhoicas/stock-bot/internal/infrastructure/discord"
	"github.com/jhoicas/stock-bot/internal/infrastructure/filestore"
	apidiscord "github.com/jhoicas/stock-bot/internal/interfaces/discord"
	httpRouter "github.com/jhoicas/stock-bot/internal/interfaces/http"
	"github.com/jhoicas/stock-bot/pkg/config"
	"github.com/jhoicas/stock-bot/pkg/logger"
	"github.com/spf13/pflag"
)

func main() {
	opts, err := config.ParseFlags("stock-bot", os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load(opts)
	if err != nil {
		// Antes de tener configuración solo hay log de arranque con valores por defecto.
		bootLog := logger.New(logger.Config{Env: "development", Level: "info", File: opts.LogFile})
		if errors.Is(err, domain.ErrConfigMissing) {
			bootLog.Error().Err(err).Msg("configuración creada; edítela y reinicie")
		} else {
			bootLog.Error().Err(err).Msg("configuración inválida")
		}
		bootLog.Close()
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.LogLevel(),
		File:  cfg.Files.LogFile,
	})
	defer log.Close()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando bot")
	if cfg.Discord.ChannelID == "" {
		log.Warn().Msg("channel_id no configurado; el mensaje de stock no se publicará")
	}

	stockRepo := filestore.NewStockRepository(cfg.Files.StockPath)
	ledger, err := stockRepo.Load()
	if err != nil {
		log.Error().Err(err).Str("file", stockRepo.Path()).Msg("no se pudo cargar el stock; se usan valores por defecto")
	}

	session, err := discord.NewSession(cfg.Discord.Token)
	if err != nil {
		log.Fatal().Err(err).Msg("sesión de Discord")
	}
	client := discord.NewClient(session, log)

	target := entity.ChannelTarget{GuildID: cfg.Discord.GuildID, ChannelID: cfg.Discord.ChannelID}
	reconciler := reconcile.NewReconciler(client, cfg.Discord.HistoryScanLimit, log)
	gate := auth.NewGate(cfg.Discord.AuthorizedRoles)
	if gate.Roles() == 0 {
		log.Warn().Msg("authorized_roles vacío; los comandos de administración quedan denegados para todos")
	} else {
		log.Info().Int("authorized_roles", gate.Roles()).Msg("gate de autorización listo")
	}
	stockUC := inventory.NewStockUseCase(ledger, stockRepo, gate, reconciler, target, log)
	watcher := ticket.NewWatcher(entity.TicketWatchConfig{
		CategoryID:  cfg.Ticket.CategoryID,
		AlertUserID: cfg.Ticket.AlertUserID,
	}, client, log)
	bootstrapper := startup.NewBootstrapper(client, stockUC, cfg.Discord.GuildID, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := apidiscord.NewHandler(ctx, stockUC, watcher, client, log)
	handler.Register(session)
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info().Str("user", r.User.String()).Str("user_id", r.User.ID).Msg("sesión iniciada")
		go func() {
			if err := bootstrapper.Run(ctx); err != nil {
				log.Warn().Err(err).Msg("arranque en modo degradado")
			}
		}()
	})

	if err := session.Open(); err != nil {
		log.Fatal().Err(err).Msg("conexión al gateway de Discord")
	}

	var app *fiber.App
	if cfg.HTTP.Enabled() {
		app = fiber.New(fiber.Config{
			AppName:               cfg.App.Name,
			ReadTimeout:           time.Second * 10,
			WriteTimeout:          time.Second * 10,
			IdleTimeout:           time.Second * 60,
			DisableStartupMessage: true,
			ErrorHandler:          httpRouter.ErrorHandler,
		})
		app.Use(recover.New())
		httpRouter.Router(app, httpRouter.RouterDeps{AppName: cfg.App.Name, Stock: stockUC})

		go func() {
			if err := app.Listen(cfg.HTTP.Addr); err != nil {
				log.Error().Err(err).Msg("servidor HTTP finalizado")
			}
		}()
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("endpoint de salud activo")
	}

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando...")

	if app != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("apagado del servidor HTTP")
		}
		cancel()
	}
	if err := session.Close(); err != nil {
		log.Error().Err(err).Msg("cierre de la sesión de Discord")
	}
	log.Info().Msgf("%s detenido", cfg.App.Name)
}
