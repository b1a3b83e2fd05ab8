package queries

import (
	"context"
	"log/slog"
	"strings"

	"provenance/contexts/identity-access/role-registry/domain/entities"
	domainerrors "provenance/contexts/identity-access/role-registry/domain/errors"
	"provenance/contexts/identity-access/role-registry/ports"
)

// GetRoleQuery resolves the current role of one identity.
type GetRoleQuery struct {
	Identity string
}

type GetRoleResult struct {
	Identity string
	Role     entities.Role
}

// GetRoleUseCase is the read side backing both the HTTP lookup and the
// ledger's authorization checks.
type GetRoleUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u GetRoleUseCase) Execute(ctx context.Context, query GetRoleQuery) (GetRoleResult, error) {
	if strings.TrimSpace(query.Identity) == "" {
		return GetRoleResult{}, domainerrors.ErrInvalidIdentity
	}
	role, err := u.Repository.GetRole(ctx, query.Identity)
	if err != nil {
		return GetRoleResult{}, err
	}
	return GetRoleResult{Identity: query.Identity, Role: role}, nil
}

// Has reports whether the identity currently holds the given role.
func (u GetRoleUseCase) Has(ctx context.Context, identity string, role entities.Role) (bool, error) {
	result, err := u.Execute(ctx, GetRoleQuery{Identity: identity})
	if err != nil {
		return false, err
	}
	return result.Role == role, nil
}
