package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	roleregistry "provenance/contexts/identity-access/role-registry"
	registryerrors "provenance/contexts/identity-access/role-registry/domain/errors"
	registryhttp "provenance/contexts/identity-access/role-registry/transport/http"
	productledger "provenance/contexts/supply-chain/product-ledger"
	ledgererrors "provenance/contexts/supply-chain/product-ledger/domain/errors"
	ledgerhttp "provenance/contexts/supply-chain/product-ledger/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "provenance/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	registry roleregistry.Module
	ledger   productledger.Module
}

func New(
	registry roleregistry.Module,
	ledger productledger.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		registry: registry,
		ledger:   ledger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("PUT /api/registry/v1/identities/{identity}/role", s.handleAssignRole)
	s.mux.HandleFunc("DELETE /api/registry/v1/identities/{identity}/role", s.handleRevokeRole)
	s.mux.HandleFunc("GET /api/registry/v1/identities/{identity}/role", s.handleGetRole)

	s.mux.HandleFunc("POST /api/custody/v1/products", s.handleCreateProduct)
	s.mux.HandleFunc("POST /api/custody/v1/products/{product_id}/transfer", s.handleInitiateTransfer)
	s.mux.HandleFunc("POST /api/custody/v1/products/{product_id}/accept", s.handleAcceptTransfer)
	s.mux.HandleFunc("POST /api/custody/v1/products/{product_id}/received", s.handleMarkReceived)
	s.mux.HandleFunc("POST /api/custody/v1/products/{product_id}/notes", s.handleAddNote)
	s.mux.HandleFunc("POST /api/custody/v1/products/{product_id}/grants", s.handleGrantView)
	s.mux.HandleFunc("DELETE /api/custody/v1/products/{product_id}/grants/{viewer}", s.handleRevokeView)
	s.mux.HandleFunc("GET /api/custody/v1/products/{product_id}", s.handleGetSummary)
	s.mux.HandleFunc("GET /api/custody/v1/products/{product_id}/history", s.handleGetHistory)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req registryhttp.AssignRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.AssignRoleHandler(r.Context(), actorID, r.PathValue("identity"), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRevokeRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.registry.Handler.RevokeRoleHandler(r.Context(), actorID, r.PathValue("identity"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRole(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.GetRoleHandler(r.Context(), r.PathValue("identity"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.CreateProductHandler(r.Context(), actorID, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleInitiateTransfer(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.InitiateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.InitiateTransferHandler(r.Context(), actorID, r.PathValue("product_id"), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAcceptTransfer(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.AcceptTransferHandler(r.Context(), actorID, r.PathValue("product_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkReceived(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.MarkReceivedHandler(r.Context(), actorID, r.PathValue("product_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.AddNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.AddNoteHandler(r.Context(), actorID, r.PathValue("product_id"), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGrantView(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.GrantViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.GrantViewHandler(r.Context(), actorID, r.PathValue("product_id"), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRevokeView(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.RevokeViewHandler(
		r.Context(),
		actorID,
		r.PathValue("product_id"),
		r.PathValue("viewer"),
	)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.GetSummaryHandler(r.Context(), r.PathValue("product_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.GetHistoryHandler(r.Context(), actorID, r.PathValue("product_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	actorID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if actorID == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return actorID, true
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrAdminOnly):
		writeRegistryError(w, http.StatusForbidden, "admin_only", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidIdentity),
		errors.Is(err, registryerrors.ErrInvalidRole):
		writeRegistryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrProductNotFound):
		writeLedgerError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrProductAlreadyExists):
		writeLedgerError(w, http.StatusConflict, "product_already_exists", err.Error())
	case errors.Is(err, ledgererrors.ErrNotOwner):
		writeLedgerError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, ledgererrors.ErrRoleMismatch):
		writeLedgerError(w, http.StatusForbidden, "role_mismatch", err.Error())
	case errors.Is(err, ledgererrors.ErrUnauthorized):
		writeLedgerError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, ledgererrors.ErrNoPendingTransferForCaller):
		writeLedgerError(w, http.StatusConflict, "no_pending_transfer", err.Error())
	case errors.Is(err, ledgererrors.ErrTransferAlreadyPending):
		writeLedgerError(w, http.StatusConflict, "transfer_already_pending", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidProductID),
		errors.Is(err, ledgererrors.ErrInvalidRecipient),
		errors.Is(err, ledgererrors.ErrInvalidViewer):
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
