// Package profiles loads named endpoint configurations from YAML/JSON files,
// so binaries can address remote APIs by id instead of hardcoding hosts and
// credentials. Credential fields support ${ENV_VAR} expansion to keep secret
// material out of config files.
package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/edevapps/go-restclient/pkg/restclient"
)

// configFile represents the structure of a profiles configuration file.
type configFile struct {
	Profiles []Profile `json:"profiles" yaml:"profiles"`
}

// Profile is a single endpoint entry declared in config files.
type Profile struct {
	ID             string `json:"id" yaml:"id"`
	Scheme         string `json:"scheme" yaml:"scheme"`
	Host           string `json:"host" yaml:"host"`
	Port           int    `json:"port" yaml:"port"`
	BasePath       string `json:"base_path" yaml:"base_path"`
	User           string `json:"user" yaml:"user"`
	Password       string `json:"password" yaml:"password"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns the per-request timeout, zero when unset.
func (p Profile) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Client builds a restclient.Client from the profile.
func (p Profile) Client() (*restclient.Client, error) {
	b := restclient.NewBuilder().
		Scheme(restclient.Scheme(p.Scheme)).
		Host(p.Host).
		BasePath(p.BasePath).
		Timeout(p.Timeout())
	if p.Port > 0 {
		b.Port(p.Port)
	}
	if p.User != "" || p.Password != "" {
		b.BasicAuth(p.User, p.Password)
	}

	client, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", p.ID, err)
	}
	return client, nil
}

// Registry materializes endpoint profiles loaded from config files.
type Registry struct {
	profiles []Profile
	idx      map[string]Profile
}

// LoadRegistry loads the profile registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("profiles file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profiles file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	fileReg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Profiles) == 0 {
		return nil, errors.New("profiles file contains no profiles entries")
	}

	reg := &Registry{
		profiles: make([]Profile, len(fileReg.Profiles)),
		idx:      make(map[string]Profile, len(fileReg.Profiles)),
	}

	for i := range fileReg.Profiles {
		p := sanitizeProfile(fileReg.Profiles[i])
		if err := validateProfile(p); err != nil {
			return nil, fmt.Errorf("profiles[%d]: %w", i, err)
		}
		if _, exists := reg.idx[p.ID]; exists {
			return nil, fmt.Errorf("duplicate profile id %q", p.ID)
		}
		reg.profiles[i] = p
		reg.idx[p.ID] = p
	}

	return reg, nil
}

// All returns a copy of the loaded profiles in file order.
func (r *Registry) All() []Profile {
	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// ByID returns the profile with the given id, if loaded.
func (r *Registry) ByID(id string) (Profile, bool) {
	p, ok := r.idx[strings.TrimSpace(id)]
	return p, ok
}

// IDs returns the loaded profile ids in file order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.profiles))
	for i, p := range r.profiles {
		out[i] = p.ID
	}
	return out
}

// parseRegistry attempts to decode the profiles file content.
func parseRegistry(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var reg configFile
		if err := d.fn(data, &reg); err == nil {
			return reg, nil
		}
	}

	return configFile{}, errors.New("profiles file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func sanitizeProfile(p Profile) Profile {
	p.ID = strings.TrimSpace(p.ID)
	p.Scheme = strings.ToLower(strings.TrimSpace(p.Scheme))
	p.Host = strings.TrimSpace(p.Host)
	p.BasePath = strings.TrimSpace(p.BasePath)
	p.User = os.ExpandEnv(p.User)
	p.Password = os.ExpandEnv(p.Password)
	return p
}

func validateProfile(p Profile) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.Scheme != string(restclient.SchemeHTTP) && p.Scheme != string(restclient.SchemeHTTPS) {
		return fmt.Errorf("scheme must be http or https for profile %q", p.ID)
	}
	if p.Host == "" {
		return fmt.Errorf("host is required for profile %q", p.ID)
	}
	return nil
}
