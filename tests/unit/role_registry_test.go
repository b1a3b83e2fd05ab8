package unit

import (
	"context"
	"errors"
	"testing"

	roleregistry "provenance/contexts/identity-access/role-registry"
	"provenance/contexts/identity-access/role-registry/domain/entities"
	domainerrors "provenance/contexts/identity-access/role-registry/domain/errors"
	httptransport "provenance/contexts/identity-access/role-registry/transport/http"
)

func TestRoleRegistryAssignAndGet(t *testing.T) {
	module := roleregistry.NewInMemoryModule("admin", nil)
	ctx := context.Background()

	assigned, err := module.Handler.AssignRoleHandler(ctx, "admin", "factory-1", httptransport.AssignRoleRequest{
		Role: "manufacturer",
	})
	if err != nil {
		t.Fatalf("assign role failed: %v", err)
	}
	if assigned.Role != "manufacturer" {
		t.Fatalf("expected manufacturer, got %q", assigned.Role)
	}

	got, err := module.Handler.GetRoleHandler(ctx, "factory-1")
	if err != nil {
		t.Fatalf("get role failed: %v", err)
	}
	if got.Role != "manufacturer" {
		t.Fatalf("expected manufacturer, got %q", got.Role)
	}

	has, err := module.GetRole.Has(ctx, "factory-1", entities.RoleManufacturer)
	if err != nil {
		t.Fatalf("role predicate failed: %v", err)
	}
	if !has {
		t.Fatalf("expected predicate to hold for assigned role")
	}
	has, err = module.GetRole.Has(ctx, "factory-1", entities.RoleRetailer)
	if err != nil {
		t.Fatalf("role predicate failed: %v", err)
	}
	if has {
		t.Fatalf("expected predicate to fail for a different role")
	}
}

func TestRoleRegistryAssignOverwrites(t *testing.T) {
	module := roleregistry.NewInMemoryModule("admin", nil)
	ctx := context.Background()

	if _, err := module.Handler.AssignRoleHandler(ctx, "admin", "hub-1", httptransport.AssignRoleRequest{Role: "distributor"}); err != nil {
		t.Fatalf("first assign failed: %v", err)
	}
	if _, err := module.Handler.AssignRoleHandler(ctx, "admin", "hub-1", httptransport.AssignRoleRequest{Role: "retailer"}); err != nil {
		t.Fatalf("overwrite assign failed: %v", err)
	}

	got, err := module.Handler.GetRoleHandler(ctx, "hub-1")
	if err != nil {
		t.Fatalf("get role failed: %v", err)
	}
	if got.Role != "retailer" {
		t.Fatalf("expected retailer after overwrite, got %q", got.Role)
	}
}

func TestRoleRegistryRejectsNonAdmin(t *testing.T) {
	module := roleregistry.NewInMemoryModule("admin", nil)
	ctx := context.Background()

	_, err := module.Handler.AssignRoleHandler(ctx, "factory-1", "factory-1", httptransport.AssignRoleRequest{
		Role: "manufacturer",
	})
	if !errors.Is(err, domainerrors.ErrAdminOnly) {
		t.Fatalf("expected admin only, got %v", err)
	}

	_, err = module.Handler.RevokeRoleHandler(ctx, "factory-1", "factory-1")
	if !errors.Is(err, domainerrors.ErrAdminOnly) {
		t.Fatalf("expected admin only on revoke, got %v", err)
	}
}

func TestRoleRegistryRejectsUnknownRole(t *testing.T) {
	module := roleregistry.NewInMemoryModule("admin", nil)
	ctx := context.Background()

	_, err := module.Handler.AssignRoleHandler(ctx, "admin", "factory-1", httptransport.AssignRoleRequest{
		Role: "wholesaler",
	})
	if !errors.Is(err, domainerrors.ErrInvalidRole) {
		t.Fatalf("expected invalid role, got %v", err)
	}
}

func TestRoleRegistryUnassignedDefaultsToNone(t *testing.T) {
	module := roleregistry.NewInMemoryModule("admin", nil)
	ctx := context.Background()

	got, err := module.Handler.GetRoleHandler(ctx, "stranger")
	if err != nil {
		t.Fatalf("get role failed: %v", err)
	}
	if got.Role != "none" {
		t.Fatalf("expected none for unassigned identity, got %q", got.Role)
	}
}

func TestRoleRegistryRevokeResetsToNone(t *testing.T) {
	module := roleregistry.NewInMemoryModule("admin", nil)
	ctx := context.Background()

	if _, err := module.Handler.AssignRoleHandler(ctx, "admin", "shop-1", httptransport.AssignRoleRequest{Role: "retailer"}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	revoked, err := module.Handler.RevokeRoleHandler(ctx, "admin", "shop-1")
	if err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if revoked.Role != "none" {
		t.Fatalf("expected none after revoke, got %q", revoked.Role)
	}

	// Revoking an identity that never held a role is a no-op.
	again, err := module.Handler.RevokeRoleHandler(ctx, "admin", "never-assigned")
	if err != nil {
		t.Fatalf("revoke of unassigned identity failed: %v", err)
	}
	if again.Role != "none" {
		t.Fatalf("expected none, got %q", again.Role)
	}
}
