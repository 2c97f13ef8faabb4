package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/edevapps/go-restclient/internal/app"
	"github.com/edevapps/go-restclient/internal/config"
	"github.com/edevapps/go-restclient/internal/logger"
	"github.com/edevapps/go-restclient/pkg/restclient"
)

// paramFlags collects repeated -param key=value flags.
type paramFlags map[string]string

func (p paramFlags) String() string {
	pairs := make([]string, 0, len(p))
	for k, v := range p {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (p paramFlags) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	p[key] = val
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "restcall failed: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func run() error {
	params := paramFlags{}
	profileID := flag.String("profile", "", "profile id from the profiles file")
	method := flag.String("method", "GET", "HTTP method (GET or POST)")
	path := flag.String("path", "", "request path appended to the profile base path")
	flag.Var(params, "param", "query parameter as key=value (repeatable)")
	flag.Parse()

	if *profileID == "" {
		return errors.New("-profile is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	restcall, err := app.NewRestcall(cfg, log)
	if err != nil {
		return err
	}

	return restcall.Run(ctx, app.Request{
		ProfileID: *profileID,
		Method:    *method,
		Path:      *path,
		Params:    params,
	}, os.Stdout)
}

// exitCode distinguishes the typed REST failures for scripting.
func exitCode(err error) int {
	switch {
	case errors.Is(err, restclient.ErrUnauthorized):
		return 3
	case errors.Is(err, restclient.ErrNotFound):
		return 4
	default:
		return 1
	}
}
