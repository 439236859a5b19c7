package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jrsteele09/neuroguard/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Version is set at build time
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "version":
		fmt.Printf("neuroguard %s\n", Version)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "login", "register", "logout", "status", "dashboard", "profile", "assess", "history":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.GetLogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if err = app.dispatch(ctx, cmd, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		app.Close()
		os.Exit(1)
	}
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.loginCommand(ctx, args)
	case "register":
		return a.registerCommand(ctx, args)
	case "logout":
		return a.logoutCommand(ctx)
	case "status":
		return a.statusCommand()
	case "dashboard":
		return a.dashboardCommand(ctx)
	case "profile":
		return a.profileCommand(ctx, args)
	case "assess":
		return a.assessCommand(ctx, args)
	case "history":
		return a.historyCommand(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func printUsage() {
	fmt.Print(`neuroguard - NeuroGuard stroke risk assessment client

Usage:
  neuroguard <command> [subcommand] [options]

Environment Variables:
  NEUROGUARD_API_URL        Base URL of the prediction service
  NEUROGUARD_DATA_FOLDER    Where the access token is kept (default: ~/.neuroguard)
  NEUROGUARD_TOKEN_BACKEND  file or redis (default: file)
  NEUROGUARD_REDIS_URL      Redis URL when the redis backend is used
  NEUROGUARD_PASSWORD       Password for login/register instead of the prompt
  NEUROGUARD_CONFIG         Optional YAML file with defaults for the above
  LOG_LEVEL                 debug, info, warn, error (default: info)

Commands:
  login      --email=EMAIL [--password=PWD]
  register   --email=EMAIL --name=NAME [--password=PWD]
  logout     Forget the stored session
  status     Show who is signed in and when the token expires
  dashboard  Recent assessments and risk trend
  profile    Show personal defaults
    set      --age=N --hbp=0|1
  assess     [--model=logistic|random_forest|svm] [--risk=PCT]
             [--symptoms=chest_pain,dizziness,...] [--heart-disease=0|1]
  history    [--skip=N] [--limit=N]
    show     <id>
  version    Show CLI version
  help       Show this help

Examples:
  neuroguard register --email=dr@clinic.id --name="Dr Siti"
  neuroguard profile set --age=58 --hbp=1
  neuroguard assess --symptoms=dizziness,chest_pain --risk=65
  neuroguard history show 7f3c...
`)
}
