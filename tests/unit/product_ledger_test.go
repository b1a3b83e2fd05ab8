package unit

import (
	"context"
	"errors"
	"testing"

	roleregistry "provenance/contexts/identity-access/role-registry"
	registrytransport "provenance/contexts/identity-access/role-registry/transport/http"
	productledger "provenance/contexts/supply-chain/product-ledger"
	domainerrors "provenance/contexts/supply-chain/product-ledger/domain/errors"
	ledgerports "provenance/contexts/supply-chain/product-ledger/ports"
	httptransport "provenance/contexts/supply-chain/product-ledger/transport/http"
)

func newCustodyFixture(t *testing.T) (roleregistry.Module, productledger.Module) {
	t.Helper()
	registry := roleregistry.NewInMemoryModule("admin", nil)
	ledger := productledger.NewInMemoryModule(
		ledgerports.RoleDirectoryFunc(registry.RoleDirectory()),
		"admin",
		nil,
	)
	return registry, ledger
}

func assignRole(t *testing.T, registry roleregistry.Module, identity, role string) {
	t.Helper()
	_, err := registry.Handler.AssignRoleHandler(context.Background(), "admin", identity, registrytransport.AssignRoleRequest{
		Role: role,
	})
	if err != nil {
		t.Fatalf("assign role %s to %s failed: %v", role, identity, err)
	}
}

func TestProductLedgerCreateProduct(t *testing.T) {
	registry, ledger := newCustodyFixture(t)
	ctx := context.Background()
	assignRole(t, registry, "factory-1", "manufacturer")

	created, err := ledger.Handler.CreateProductHandler(ctx, "factory-1", httptransport.CreateProductRequest{
		ProductID: "SKU-100",
		Metadata:  "batch 42",
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if created.OwnerID != "factory-1" || created.Status != "created" {
		t.Fatalf("unexpected product state: %+v", created)
	}
	if created.OwnerRole != "manufacturer" {
		t.Fatalf("expected owner role snapshot, got %q", created.OwnerRole)
	}

	history, err := ledger.Handler.GetHistoryHandler(ctx, "factory-1", "SKU-100")
	if err != nil {
		t.Fatalf("creator should see history: %v", err)
	}
	if len(history.Entries) != 1 || history.Entries[0].Action != "Created" {
		t.Fatalf("expected single Created entry, got %+v", history.Entries)
	}
	if history.Entries[0].Metadata != "batch 42" {
		t.Fatalf("expected creation metadata on entry, got %q", history.Entries[0].Metadata)
	}
}

func TestProductLedgerCreateRequiresManufacturer(t *testing.T) {
	registry, ledger := newCustodyFixture(t)
	ctx := context.Background()
	assignRole(t, registry, "hub-1", "distributor")

	_, err := ledger.Handler.CreateProductHandler(ctx, "hub-1", httptransport.CreateProductRequest{ProductID: "SKU-1"})
	if !errors.Is(err, domainerrors.ErrRoleMismatch) {
		t.Fatalf("expected role mismatch for distributor, got %v", err)
	}

	_, err = ledger.Handler.CreateProductHandler(ctx, "nobody", httptransport.CreateProductRequest{ProductID: "SKU-2"})
	if !errors.Is(err, domainerrors.ErrRoleMismatch) {
		t.Fatalf("expected role mismatch for unregistered caller, got %v", err)
	}
}

func TestProductLedgerDuplicateProductID(t *testing.T) {
	registry, ledger := newCustodyFixture(t)
	ctx := context.Background()
	assignRole(t, registry, "factory-1", "manufacturer")
	assignRole(t, registry, "factory-2", "manufacturer")

	if _, err := ledger.Handler.CreateProductHandler(ctx, "factory-1", httptransport.CreateProductRequest{ProductID: "SKU-1"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := ledger.Handler.CreateProductHandler(ctx, "factory-2", httptransport.CreateProductRequest{ProductID: "SKU-1"})
	if !errors.Is(err, domainerrors.ErrProductAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	// The failed create must not disturb the original record.
	summary, err := ledger.Handler.GetSummaryHandler(ctx, "SKU-1")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.OwnerID != "factory-1" {
		t.Fatalf("expected original owner preserved, got %q", summary.OwnerID)
	}
	history, err := ledger.Handler.GetHistoryHandler(ctx, "factory-1", "SKU-1")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history.Entries) != 1 {
		t.Fatalf("expected history unchanged, got %d entries", len(history.Entries))
	}
}

func TestProductLedgerTransferLifecycle(t *testing.T) {
	registry, ledger := newCustodyFixture(t)
	ctx := context.Background()
	assignRole(t, registry, "factory-1", "manufacturer")
	assignRole(t, registry, "hub-1", "distributor")
	assignRole(t, registry, "shop-1", "retailer")

	if _, err := ledger.Handler.CreateProductHandler(ctx, "factory-1", httptransport.CreateProductRequest{ProductID: "SKU-1"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	inTransit, err := ledger.Handler.InitiateTransferHandler(ctx, "factory-1", "SKU-1", httptransport.InitiateTransferRequest{To: "hub-1"})
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}
	if inTransit.Status != "in_transit" || inTransit.PendingRecipient != "hub-1" {
		t.Fatalf("unexpected state after initiate: %+v", inTransit)
	}

	accepted, err := ledger.Handler.AcceptTransferHandler(ctx, "hub-1", "SKU-1")
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.OwnerID != "hub-1" || accepted.OwnerRole != "distributor" {
		t.Fatalf("unexpected owner after accept: %+v", accepted)
	}
	if accepted.PendingRecipient != "" {
		t.Fatalf("pending recipient should clear on accept")
	}

	if _, err := ledger.Handler.InitiateTransferHandler(ctx, "hub-1", "SKU-1", httptransport.InitiateTransferRequest{To: "shop-1"}); err != nil {
		t.Fatalf("second initiate failed: %v", err)
	}
	if _, err := ledger.Handler.AcceptTransferHandler(ctx, "shop-1", "SKU-1"); err != nil {
		t.Fatalf("second accept failed: %v", err)
	}

	received, err := ledger.Handler.MarkReceivedHandler(ctx, "shop-1", "SKU-1")
	if err != nil {
		t.Fatalf("mark received failed: %v", err)
	}
	if received.Status != "received" {
		t.Fatalf("expected received status, got %q", received.Status)
	}

	history, err := ledger.Handler.GetHistoryHandler(ctx, "factory-1", "SKU-1")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	wantActions := []string{
		"Created",
		"TransferInitiated",
		"TransferAccepted",
		"TransferInitiated",
		"TransferAccepted",
		"Received",
	}
	if len(history.Entries) != len(wantActions) {
		t.Fatalf("expected %d entries, got %d", len(wantActions), len(history.Entries))
	}
	for i, entry := range history.Entries {
		if entry.Action != wantActions[i] {
			t.Fatalf("entry %d: expected %s, got %s", i, wantActions[i], entry.Action)
		}
		if entry.Sequence != i+1 {
			t.Fatalf("entry %d: expected sequence %d, got %d", i, i+1, entry.Sequence)
		}
	}
}

func TestProductLedgerInitiateRequiresOwner(t *testing.T) {
	registry, ledger := newCustodyFixture(t)
	ctx := context.Background()
	assignRole(t, registry, "factory-1", "manufacturer")
	assignRole(t, registry, "hub-1", "distributor")

	if _, err := ledger.Handler.CreateProductHandler(ctx, "factory-1", httptransport.CreateProductRequest{ProductID: "SKU-1"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err := ledger.Handler.InitiateTransferHandler(ctx, "hub-1", "SKU-1", httptransport.InitiateTransferRequest{To: "hub-1"})
	if !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}

	_, err = ledger.Handler.InitiateTransferHandler(ctx, "factory-1", "SKU-1", httptransport.InitiateTransferRequest{To: ""})
	if !errors.Is(err, domainerrors.ErrInvalidRecipient) {
		t.Fatalf("expected invalid recipient, got %v", err)
	}

	_, err = ledger.Handler.InitiateTransferHandler(ctx, "factory-1", "missing", httptransport.InitiateTransferRequest{To: "hub-1"})
	if !errors.Is(err, domainerrors.ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProductLedgerPendingTransferReoffer(t *testing.T) {
	registry, ledger := newCustodyFixture(t)
	ctx := context.Background()
	assignRole(t, registry, "factory-1", "manufacturer")
	assignRole(t, registry, "hub-1", "distributor")
	assignRole(t, registry, "hub-2", "distributor")

	if _, err := ledger.Handler.CreateProductHandler(ctx, "factory-1", httptransport.CreateProductRequest{ProductID: "SKU-1"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := ledger.Handler.InitiateTransferHandler(ctx, "factory-1", "SKU-1", httptransport.InitiateTransferRequest{To: "hub-1"}); err != nil {
		t.Fatalf("first initiate failed: %v", err)
	}

	// Re-offering replaces the nominated recipient; the first nominee can no
	// longer accept.
	reoffered, err := ledger.Handler.InitiateTransferHandler(ctx, "factory-1", "SKU-1", httptransport.InitiateTransferRequest{To: "hub-2"})
	if err != nil {
		t.Fatalf("reoffer failed: %v", err)
	}
	if reoffered.PendingRecipient != "hub-2" {
		t.Fatalf("expected hub-2 pending, got %q", reoffered.PendingRecipient)
	}

	_, err = ledger.Handler.AcceptTransferHandler(ctx, "hub-1", "SKU-1")
	if !errors.Is(err, domainerrors.ErrNoPendingTransferForCaller) {
		t.Fatalf("expected no pending transfer for displaced nominee, got %v", err)
	}
	if _, err := ledger.Handler.AcceptTransferHandler(ctx, "hub-2", "SKU-1"); err != nil {
		t.Fatalf("accept by current nominee failed: %v", err)
	}
}

func TestProductLedgerAcceptRequiresNomination(t *testing.T) {
	registry, ledger := newCustodyFixture(t)
	ctx := context.Background()
	assignRole(t, registry, "factory-1", "manufacturer")
	assignRole(t, registry, "hub-1", "distributor")

	if _, err := ledger.Handler.CreateProductHandler(ctx, "factory-1", httptransport.CreateProductRequest{ProductID: "SKU-1"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err := ledger.Handler.AcceptTransferHandler(ctx, "hub-1", "SKU-1")
	if !errors.Is(err, domainerrors.ErrNoPendingTransferForCaller) {
		t.Fatalf("expected no pending transfer, got %v", err)
	}
}

func TestProductLedgerMarkReceivedByOwnerAnytime(t *testing.T) {
	registry, ledger := newCustodyFixture(t)
	ctx := context.Background()
	assignRole(t, registry, "factory-1", "manufacturer")

	if _, err := ledger.Handler.CreateProductHandler(ctx, "factory-1", httptransport.CreateProductRequest{ProductID: "SKU-1"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// No status gate: the creator can mark their own product received.
	received, err := ledger.Handler.MarkReceivedHandler(ctx, "factory-1", "SKU-1")
	if err != nil {
		t.Fatalf("mark received failed: %v", err)
	}
	if received.Status != "received" {
		t.Fatalf("expected received, got %q", received.Status)
	}

	_, err = ledger.Handler.MarkReceivedHandler(ctx, "someone-else", "SKU-1")
	if !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}
}

func TestProductLedgerAddNote(t *testing.T) {
	registry, ledger := newCustodyFixture(t)
	ctx := context.Background()
	assignRole(t, registry, "factory-1", "manufacturer")

	if _, err := ledger.Handler.CreateProductHandler(ctx, "factory-1", httptransport.CreateProductRequest{ProductID: "SKU-1"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := ledger.Handler.AddNoteHandler(ctx, "factory-1", "SKU-1", httptransport.AddNoteRequest{Note: "cold chain verified"}); err != nil {
		t.Fatalf("add note failed: %v", err)
	}

	_, err := ledger.Handler.AddNoteHandler(ctx, "outsider", "SKU-1", httptransport.AddNoteRequest{Note: "x"})
	if !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}

	history, err := ledger.Handler.GetHistoryHandler(ctx, "factory-1", "SKU-1")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history.Entries))
	}
	last := history.Entries[1]
	if last.Action != "Note" || last.Metadata != "cold chain verified" {
		t.Fatalf("unexpected note entry: %+v", last)
	}
}
