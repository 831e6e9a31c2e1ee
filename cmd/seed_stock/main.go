// seed_stock prepara los documentos del bot en el directorio de trabajo:
// config.json de ejemplo y stock.json con todos los productos en 0.
//
// Uso: go run ./cmd/seed_stock [--config config.json] [--stock stock.json] [--force] [--check]
// Con --check no escribe nada: valida ambos documentos e informa su contenido.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/stock-bot/internal/domain/entity"
	"github.com/jhoicas/stock-bot/internal/infrastructure/filestore"
	"github.com/jhoicas/stock-bot/pkg/config"
	"github.com/spf13/pflag"
)

func main() {
	var (
		configPath string
		stockPath  string
		force      bool
		check      bool
	)
	fs := pflag.NewFlagSet("seed_stock", pflag.ContinueOnError)
	fs.StringVarP(&configPath, "config", "c", "config.json", "ruta del documento de configuración")
	fs.StringVar(&stockPath, "stock", "stock.json", "ruta del documento de stock")
	fs.BoolVar(&force, "force", false, "sobrescribe documentos existentes")
	fs.BoolVar(&check, "check", false, "solo valida, no escribe")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if check {
		os.Exit(runCheck(configPath, stockPath))
	}

	if exists(configPath) && !force {
		fmt.Printf("%s ya existe, se conserva\n", configPath)
	} else {
		if err := config.WriteDefault(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Escribir configuración: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generado %s (complete token y IDs)\n", configPath)
	}

	repo := filestore.NewStockRepository(stockPath)
	if exists(stockPath) && !force {
		fmt.Printf("%s ya existe, se conserva\n", stockPath)
		return
	}
	ledger := entity.DefaultLedger()
	if err := repo.Save(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir stock: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos\n", stockPath, ledger.Len())
}

func runCheck(configPath, stockPath string) int {
	code := 0
	if !exists(configPath) {
		fmt.Fprintf(os.Stderr, "%s: no existe\n", configPath)
		code = 1
	} else if cfg, err := config.Load(config.Options{ConfigPath: configPath, StockPath: stockPath}); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", configPath, err)
		code = 1
	} else {
		fmt.Printf("%s: OK (guild=%q canal=%q roles=%d)\n",
			configPath, cfg.Discord.GuildID, cfg.Discord.ChannelID, len(cfg.Discord.AuthorizedRoles))
	}

	if !exists(stockPath) {
		fmt.Fprintf(os.Stderr, "%s: no existe\n", stockPath)
		return 1
	}
	ledger, err := filestore.NewStockRepository(stockPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", stockPath, err)
		return 1
	}
	fmt.Printf("%s: OK\n", stockPath)
	for _, e := range ledger.Entries() {
		fmt.Printf("  %-20s %d\n", e.Product, e.Count)
	}
	return code
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
