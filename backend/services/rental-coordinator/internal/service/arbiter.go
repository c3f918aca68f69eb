package service

import (
	"context"
	"strings"
)

// AuthorizedDeviceKey is the app_settings row designating the sole billing writer.
const AuthorizedDeviceKey = "authorized_device_id"

// DeviceIdentity resolves this instance's stable identifier.
type DeviceIdentity interface {
	DeviceID() string
}

// Arbiter decides whether this running instance is the designated billing
// writer. The designation is manual: an operator marks exactly one device and
// every other instance's poller stays read-only. There is no election and no
// failover; two instances racing SetAuthorizedDevice can both believe they
// are authorized, and nothing here self-corrects that.
type Arbiter struct {
	identity DeviceIdentity
	settings SettingsStore
}

// NewArbiter builds arbiter.
func NewArbiter(identity DeviceIdentity, settings SettingsStore) *Arbiter {
	return &Arbiter{identity: identity, settings: settings}
}

// IsAuthorized reports whether this instance matches the stored designation.
func (a *Arbiter) IsAuthorized(ctx context.Context) (bool, error) {
	authorized, err := a.settings.Get(ctx, AuthorizedDeviceKey)
	if err != nil {
		return false, err
	}
	authorized = strings.TrimSpace(authorized)
	if authorized == "" {
		return false, nil
	}
	return authorized == a.identity.DeviceID(), nil
}

// AuthorizedDevice returns the current designation, empty when unset.
func (a *Arbiter) AuthorizedDevice(ctx context.Context) (string, error) {
	return a.settings.Get(ctx, AuthorizedDeviceKey)
}

// SetAuthorizedDevice persists id as the sole writer designation. Idempotent;
// an empty id clears the designation.
func (a *Arbiter) SetAuthorizedDevice(ctx context.Context, id string) error {
	return a.settings.Set(ctx, AuthorizedDeviceKey, strings.TrimSpace(id))
}
