package handlers

import (
	"github.com/fieldline/portal/internal/app/service/account"
	"github.com/fieldline/portal/internal/app/service/directory"
	"github.com/fieldline/portal/internal/models"
	"github.com/fieldline/portal/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespCheckoutReturn wraps the checkout-return outcome in the standard envelope.
type RespCheckoutReturn struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    checkoutReturnResp       `json:"data"`
}

// RespStartCheckout wraps the hosted checkout redirect in the standard envelope.
type RespStartCheckout struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    startCheckoutResp        `json:"data"`
}

// RespPortalSession wraps the billing portal URL in the standard envelope.
type RespPortalSession struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    portalSessionResp        `json:"data"`
}

// StartCheckoutBody is the checkout request body.
type StartCheckoutBody struct {
	PlanCode string `json:"plan_code"`
}

// RespClient wraps a single client record in the standard envelope.
type RespClient struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Client            `json:"data"`
}

// RespScanClients wraps a paginated client listing in the standard envelope.
type RespScanClients struct {
	Code    response.APIResponseCode               `json:"code"`
	Message string                                 `json:"message"`
	Data    directory.ScanResponse[*models.Client] `json:"data"`
}

// RespProject wraps a single project record in the standard envelope.
type RespProject struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Project           `json:"data"`
}

// RespScanProjects wraps a paginated project listing in the standard envelope.
type RespScanProjects struct {
	Code    response.APIResponseCode                `json:"code"`
	Message string                                  `json:"message"`
	Data    directory.ScanResponse[*models.Project] `json:"data"`
}

// RespContact wraps a single contact record in the standard envelope.
type RespContact struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Contact           `json:"data"`
}

// RespScanContacts wraps a paginated contact listing in the standard envelope.
type RespScanContacts struct {
	Code    response.APIResponseCode                `json:"code"`
	Message string                                  `json:"message"`
	Data    directory.ScanResponse[*models.Contact] `json:"data"`
}

// RespIntake wraps an intake submission in the standard envelope.
type RespIntake struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.IntakeSubmission  `json:"data"`
}

// SaveIntakeStepBody is the wizard step request body.
type SaveIntakeStepBody struct {
	Step    int            `json:"step"`
	Answers map[string]any `json:"answers"`
}

// EnsureProfileBody is the first-login profile request body.
type EnsureProfileBody struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// RespProfile wraps a profile record in the standard envelope.
type RespProfile struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Profile           `json:"data"`
}

// RespWorkspace wraps the current-workspace view in the standard envelope.
type RespWorkspace struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    account.Workspace        `json:"data"`
}

// CreateWorkspaceBody is the workspace creation request body.
type CreateWorkspaceBody struct {
	Name string `json:"name"`
}

// RespAccount wraps an account record in the standard envelope.
type RespAccount struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Account           `json:"data"`
}

// CreateInviteBody is the invite creation request body.
type CreateInviteBody struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RespInvite wraps a single invite in the standard envelope.
type RespInvite struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Invite            `json:"data"`
}

// RespInvites wraps the open-invite listing in the standard envelope.
type RespInvites struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []InviteItem             `json:"data"`
}

// AcceptInviteBody is the invite redemption request body.
type AcceptInviteBody struct {
	Token string `json:"token"`
}

// RespMembership wraps a membership record in the standard envelope.
type RespMembership struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Membership        `json:"data"`
}
