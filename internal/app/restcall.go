package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/edevapps/go-restclient/internal/config"
	"github.com/edevapps/go-restclient/pkg/profiles"
)

// Request describes one REST call to perform against a named profile.
type Request struct {
	ProfileID string
	Method    string
	Path      string
	Params    map[string]string
}

// Restcall performs single REST calls against endpoints declared in the
// profile registry and renders the decoded document.
type Restcall struct {
	cfg *config.Config
	reg *profiles.Registry
	log *zap.SugaredLogger
}

// NewRestcall builds the runtime from config files.
func NewRestcall(cfg *config.Config, log *zap.SugaredLogger) (*Restcall, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	reg, err := profiles.LoadRegistry(cfg.ProfilesFile)
	if err != nil {
		return nil, fmt.Errorf("load profiles registry: %w", err)
	}
	log.Infow("profiles registry loaded", "count", len(reg.IDs()), "ids", reg.IDs())

	return &Restcall{cfg: cfg, reg: reg, log: log}, nil
}

// Run executes the request and writes the decoded document as indented JSON.
func (r *Restcall) Run(ctx context.Context, req Request, out io.Writer) error {
	profile, ok := r.reg.ByID(req.ProfileID)
	if !ok {
		return fmt.Errorf("unknown profile %q (have: %s)", req.ProfileID, strings.Join(r.reg.IDs(), ", "))
	}
	if profile.TimeoutSeconds <= 0 && r.cfg.RequestTimeout > 0 {
		profile.TimeoutSeconds = int(r.cfg.RequestTimeout.Seconds())
	}

	client, err := profile.Client()
	if err != nil {
		return err
	}

	r.log.Infow("issuing request",
		"profile", profile.ID,
		"method", req.Method,
		"url", client.BaseURL()+req.Path,
		"params", req.Params,
	)

	var doc any
	switch strings.ToUpper(strings.TrimSpace(req.Method)) {
	case http.MethodGet, "":
		err = client.GetJSON(ctx, req.Path, req.Params, &doc)
	case http.MethodPost:
		err = client.PostJSON(ctx, req.Path, req.Params, &doc)
	default:
		return fmt.Errorf("unsupported method %q (expected GET or POST)", req.Method)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	return nil
}
