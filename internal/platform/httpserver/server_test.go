package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	roleregistry "provenance/contexts/identity-access/role-registry"
	productledger "provenance/contexts/supply-chain/product-ledger"
	ledgerports "provenance/contexts/supply-chain/product-ledger/ports"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	registry := roleregistry.NewInMemoryModule("admin", nil)
	ledger := productledger.NewInMemoryModule(
		ledgerports.RoleDirectoryFunc(registry.RoleDirectory()),
		"admin",
		nil,
	)
	return New(registry, ledger, nil, ":0")
}

func doJSON(t *testing.T, handler http.Handler, method, path, caller, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if caller != "" {
		req.Header.Set("X-User-Id", caller)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServerHealth(t *testing.T) {
	server := newTestServer(t)
	rec := doJSON(t, server.Handler(), http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestServerRequiresCallerHeader(t *testing.T) {
	server := newTestServer(t)
	rec := doJSON(t, server.Handler(), http.MethodPost, "/api/custody/v1/products", "", `{"product_id":"SKU-1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without X-User-Id, got %d", rec.Code)
	}
}

func TestServerCustodyFlow(t *testing.T) {
	server := newTestServer(t)
	handler := server.Handler()

	rec := doJSON(t, handler, http.MethodPut, "/api/registry/v1/identities/factory-1/role", "admin", `{"role":"manufacturer"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("assign role: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, handler, http.MethodPut, "/api/registry/v1/identities/hub-1/role", "admin", `{"role":"distributor"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("assign role: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/custody/v1/products", "factory-1", `{"product_id":"SKU-1","metadata":"batch 7"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/custody/v1/products", "factory-1", `{"product_id":"SKU-1"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create: expected 409, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/custody/v1/products/SKU-1/transfer", "factory-1", `{"to":"hub-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("transfer: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/custody/v1/products/SKU-1/accept", "hub-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("accept: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/custody/v1/products/SKU-1/received", "hub-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("received: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/custody/v1/products/SKU-1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d", rec.Code)
	}
	var summary struct {
		OwnerID string `json:"owner_id"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.OwnerID != "hub-1" || summary.Status != "received" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestServerErrorMapping(t *testing.T) {
	server := newTestServer(t)
	handler := server.Handler()

	rec := doJSON(t, handler, http.MethodPut, "/api/registry/v1/identities/factory-1/role", "factory-1", `{"role":"manufacturer"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin assign: expected 403, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/custody/v1/products", "factory-1", `{"product_id":"SKU-1"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("create without manufacturer role: expected 403, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/custody/v1/products/missing", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing product: expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/custody/v1/products", "factory-1", `{bad json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: expected 400, got %d", rec.Code)
	}
}

func TestServerHistoryVisibility(t *testing.T) {
	server := newTestServer(t)
	handler := server.Handler()

	doJSON(t, handler, http.MethodPut, "/api/registry/v1/identities/factory-1/role", "admin", `{"role":"manufacturer"}`)
	doJSON(t, handler, http.MethodPost, "/api/custody/v1/products", "factory-1", `{"product_id":"SKU-1"}`)

	rec := doJSON(t, handler, http.MethodGet, "/api/custody/v1/products/SKU-1/history", "auditor-1", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("history without grant: expected 403, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/custody/v1/products/SKU-1/grants", "factory-1", `{"viewer":"auditor-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("grant: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, handler, http.MethodGet, "/api/custody/v1/products/SKU-1/history", "auditor-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("history with grant: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/custody/v1/products/SKU-1/grants/auditor-1", "factory-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("revoke: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodGet, "/api/custody/v1/products/SKU-1/history", "auditor-1", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("history after revoke: expected 403, got %d", rec.Code)
	}
}
