package restclient

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Scheme is the URI scheme used to reach the remote endpoint.
type Scheme string

const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

func (s Scheme) valid() bool {
	return s == SchemeHTTP || s == SchemeHTTPS
}

// Config holds the connection settings for a client. It is a plain value
// captured once at construction; reconfiguring an endpoint means building a
// new client.
type Config struct {
	Scheme   Scheme
	Host     string
	Port     int // 0 means the scheme default; the URL omits it
	BasePath string
	User     string
	Password string
	Timeout  time.Duration // 0 means no client-side timeout
}

func (c Config) validate() error {
	if !c.Scheme.valid() {
		return fmt.Errorf("scheme must be %q or %q, got %q", SchemeHTTP, SchemeHTTPS, c.Scheme)
	}
	if strings.TrimSpace(c.Host) == "" {
		return errors.New("host is required")
	}
	return nil
}

// BaseURL renders scheme://host[:port]basePath. The base path is appended
// verbatim; callers own any leading slash.
func (c Config) BaseURL() string {
	var b strings.Builder
	b.WriteString(string(c.Scheme))
	b.WriteString("://")
	b.WriteString(c.Host)
	if c.Port > 0 {
		b.WriteString(":")
		b.WriteString(strconv.Itoa(c.Port))
	}
	b.WriteString(c.BasePath)
	return b.String()
}

// hasBasicAuth reports whether both credential halves are present. A lone
// user or password sends no Authorization header at all.
func (c Config) hasBasicAuth() bool {
	return c.User != "" && c.Password != ""
}

// Builder assembles a Config field by field and produces an immutable Client.
type Builder struct {
	cfg Config
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{cfg: Config{Port: -1}}
}

func (b *Builder) Scheme(s Scheme) *Builder {
	b.cfg.Scheme = s
	return b
}

func (b *Builder) Host(host string) *Builder {
	b.cfg.Host = strings.TrimSpace(host)
	return b
}

// Port sets an explicit port. A negative value restores the scheme default.
func (b *Builder) Port(port int) *Builder {
	b.cfg.Port = port
	return b
}

func (b *Builder) BasePath(basePath string) *Builder {
	b.cfg.BasePath = basePath
	return b
}

// BasicAuth sets the credentials sent as an HTTP Basic Authorization header.
// Both values must be non-empty for the header to be attached.
func (b *Builder) BasicAuth(user, password string) *Builder {
	b.cfg.User = user
	b.cfg.Password = password
	return b
}

func (b *Builder) Timeout(timeout time.Duration) *Builder {
	b.cfg.Timeout = timeout
	return b
}

// Build validates the accumulated config and constructs the client. The
// transport and any Basic Auth header are attached here, exactly once.
func (b *Builder) Build() (*Client, error) {
	cfg := b.cfg
	if cfg.Port < 0 {
		cfg.Port = 0
	}
	return New(cfg)
}
