package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const deviceIDFile = "device-id"

// Provider derives a stable identifier for this running instance. The primary
// identity is a uuid persisted under the user config dir on first use; when
// that path is unavailable a deterministic hash of the hostname is used
// instead, so the same machine keeps resolving to the same id.
type Provider struct {
	path string
	once sync.Once
	id   string
}

// NewProvider returns a provider persisting under the user config dir.
// An explicit path overrides the default location.
func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

// DeviceID returns the instance identifier, cached for the process lifetime.
func (p *Provider) DeviceID() string {
	p.once.Do(func() {
		p.id = p.resolve()
	})
	return p.id
}

func (p *Provider) resolve() string {
	path := p.path
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fallbackID()
		}
		path = filepath.Join(dir, "playpoint", deviceIDFile)
	}

	if data, err := os.ReadFile(path); err == nil {
		id := strings.TrimSpace(string(data))
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fallbackID()
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return fallbackID()
	}
	return id
}

func fallbackID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown-host"
	}
	sum := sha256.Sum256([]byte("playpoint-device:" + host))
	return "fp-" + hex.EncodeToString(sum[:8])
}
