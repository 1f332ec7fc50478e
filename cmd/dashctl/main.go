package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/matheus3301/wppdash/internal/api"
	"github.com/matheus3301/wppdash/internal/app"
	"github.com/matheus3301/wppdash/internal/config"
	"github.com/matheus3301/wppdash/internal/profile"
	"github.com/matheus3301/wppdash/internal/router"
	"github.com/matheus3301/wppdash/internal/state"
	"go.uber.org/fx"
	"go.uber.org/zap/zapcore"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	configFlag := flag.String("config", profile.ConfigPath(), "config file path")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	verboseFlag := flag.Bool("v", false, "log debug output to stderr")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Resolve(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	name := profile.Resolve(*profileFlag, cfg)
	if err := profile.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	level := zapcore.WarnLevel
	if *verboseFlag {
		level = zapcore.DebugLevel
	}

	c := &cli{jsonOut: *jsonFlag}
	fxApp := fx.New(
		app.Module(app.Params{Profile: name, Config: cfg, StderrLevel: level}),
		fx.NopLogger,
		fx.Populate(&c.root, &c.router),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStart()
	if err := fxApp.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	runErr := c.run(ctx, args)
	cancel()

	if err := fxApp.Stop(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: shutdown: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", describe(runErr))
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: dashctl [--profile <name>] [--config <path>] [--json] [-v] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  login <email> <password>             Log in and store the session")
	fmt.Fprintln(os.Stderr, "  logout                               Forget the stored session")
	fmt.Fprintln(os.Stderr, "  whoami                               Show the logged-in user")
	fmt.Fprintln(os.Stderr, "  data                                 Fetch the dashboard data blob")
	fmt.Fprintln(os.Stderr, "  sidebar                              Fetch the conversation sidebar")
	fmt.Fprintln(os.Stderr, "  contacts list [--page n] [--search s]")
	fmt.Fprintln(os.Stderr, "  contacts create --name n [--phone p] [--email e]")
	fmt.Fprintln(os.Stderr, "  contacts update <id> --name n [--phone p] [--email e]")
	fmt.Fprintln(os.Stderr, "  contacts delete <id>")
	fmt.Fprintln(os.Stderr, "  groups list [--page n] [--search s]")
	fmt.Fprintln(os.Stderr, "  groups show <id>")
	fmt.Fprintln(os.Stderr, "  groups create --name n [--description d]")
	fmt.Fprintln(os.Stderr, "  groups update <id> --name n [--description d]")
	fmt.Fprintln(os.Stderr, "  groups delete <id>")
	fmt.Fprintln(os.Stderr, "  groups add-members <id> <contact-id>...")
	fmt.Fprintln(os.Stderr, "  groups remove-member <id> <contact-id>")
	fmt.Fprintln(os.Stderr, "  groups messages <id>")
	fmt.Fprintln(os.Stderr, "  groups send <id> <text>")
	fmt.Fprintln(os.Stderr, "  open <path>                          Resolve a view path through the guard")
}

// describe turns gateway errors into a one-line message.
func describe(err error) string {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	status, ok := api.StatusOf(err)
	switch {
	case !ok:
		return err.Error()
	case status == http.StatusUnauthorized:
		return "session expired or invalid; run dashctl login"
	case apiErr.Message() != "":
		return fmt.Sprintf("%s (HTTP %d)", apiErr.Message(), status)
	default:
		return err.Error()
	}
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}

type cli struct {
	root    *state.Root
	router  *router.Router
	jsonOut bool
}
