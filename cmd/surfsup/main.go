package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/lox/surfsup/internal/api"
	"github.com/lox/surfsup/internal/logging"
	"github.com/lox/surfsup/internal/store"
)

type CLI struct {
	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name=env-file,default='.env',help='Path to .env file'"`

	DB          string        `help:"Path to the climate SQLite dataset." default:"Resources/hawaii.sqlite" env:"SURFSUP_DB" type:"path"`
	Addr        string        `help:"HTTP listen address." default:":5000" env:"SURFSUP_ADDR"`
	LogLevel    string        `help:"Log level (debug, info, warn, error)." default:"info" env:"SURFSUP_LOG_LEVEL" enum:"debug,info,warn,error"`
	LogFormat   string        `help:"Log format (text, json)." default:"text" env:"SURFSUP_LOG_FORMAT" enum:"text,json"`
	OpenTimeout time.Duration `help:"How long to retry opening a busy dataset." default:"10s" env:"SURFSUP_OPEN_TIMEOUT"`
}

func (c *CLI) Run() error {
	logger, err := logging.New(os.Stderr, c.LogLevel, c.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(ctx, c.DB, c.OpenTimeout)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer st.Close()

	server := api.NewServer(st, c.Addr, logger)
	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("surfsup"),
		kong.Description("Read-only JSON API over the Hawaii climate dataset."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(kctx.Run())
}
