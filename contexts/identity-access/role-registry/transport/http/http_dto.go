package httptransport

import "time"

// AssignRoleRequest is the request body for role assignment.
type AssignRoleRequest struct {
	Role string `json:"role"`
}

type AssignRoleResponse struct {
	Identity  string    `json:"identity"`
	Role      string    `json:"role"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RevokeRoleResponse struct {
	Identity  string    `json:"identity"`
	Role      string    `json:"role"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GetRoleResponse struct {
	Identity string `json:"identity"`
	Role     string `json:"role"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
