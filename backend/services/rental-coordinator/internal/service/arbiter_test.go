package service

import (
	"context"
	"testing"
)

func TestArbiterAuthorizationMatchesStoredDesignation(t *testing.T) {
	settings := newFakeSettings()
	a := NewArbiter(staticIdentity("device-aaaa"), settings)
	ctx := context.Background()

	ok, err := a.IsAuthorized(ctx)
	if err != nil {
		t.Fatalf("IsAuthorized: %v", err)
	}
	if ok {
		t.Fatalf("no designation stored, nobody should be authorized")
	}

	if err := a.SetAuthorizedDevice(ctx, "device-aaaa"); err != nil {
		t.Fatalf("SetAuthorizedDevice: %v", err)
	}
	ok, err = a.IsAuthorized(ctx)
	if err != nil {
		t.Fatalf("IsAuthorized: %v", err)
	}
	if !ok {
		t.Fatalf("designated device should be authorized")
	}

	other := NewArbiter(staticIdentity("device-bbbb"), settings)
	ok, err = other.IsAuthorized(ctx)
	if err != nil {
		t.Fatalf("IsAuthorized: %v", err)
	}
	if ok {
		t.Fatalf("non-designated device must not be authorized")
	}
}

func TestArbiterSetTrimsAndClears(t *testing.T) {
	settings := newFakeSettings()
	a := NewArbiter(staticIdentity("device-aaaa"), settings)
	ctx := context.Background()

	if err := a.SetAuthorizedDevice(ctx, "  device-aaaa  "); err != nil {
		t.Fatalf("SetAuthorizedDevice: %v", err)
	}
	got, err := a.AuthorizedDevice(ctx)
	if err != nil {
		t.Fatalf("AuthorizedDevice: %v", err)
	}
	if got != "device-aaaa" {
		t.Fatalf("AuthorizedDevice = %q, want trimmed id", got)
	}

	if err := a.SetAuthorizedDevice(ctx, ""); err != nil {
		t.Fatalf("clear designation: %v", err)
	}
	ok, err := a.IsAuthorized(ctx)
	if err != nil {
		t.Fatalf("IsAuthorized: %v", err)
	}
	if ok {
		t.Fatalf("cleared designation must deauthorize everyone")
	}
}

func TestArbiterReassignmentMovesAuthorization(t *testing.T) {
	settings := newFakeSettings()
	first := NewArbiter(staticIdentity("device-aaaa"), settings)
	second := NewArbiter(staticIdentity("device-bbbb"), settings)
	ctx := context.Background()

	if err := first.SetAuthorizedDevice(ctx, "device-aaaa"); err != nil {
		t.Fatalf("SetAuthorizedDevice: %v", err)
	}
	if err := second.SetAuthorizedDevice(ctx, "device-bbbb"); err != nil {
		t.Fatalf("SetAuthorizedDevice: %v", err)
	}

	ok, _ := first.IsAuthorized(ctx)
	if ok {
		t.Fatalf("previous designee should lose authorization on reassignment")
	}
	ok, _ = second.IsAuthorized(ctx)
	if !ok {
		t.Fatalf("new designee should hold authorization")
	}
}
