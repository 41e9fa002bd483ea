package billing

import "errors"

var (
	// ErrInvalidArgument is returned before any I/O when a caller violates a
	// precondition (empty account id, subscription without an identifier,
	// missing session id or origin).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingSubscriptionReference means a completed checkout session
	// carries no subscription at all; reconciliation cannot proceed.
	ErrMissingSubscriptionReference = errors.New("checkout session has no subscription reference")

	// ErrUnauthenticated means no session user was resolved for a flow that
	// requires one.
	ErrUnauthenticated = errors.New("no authenticated user")

	// ErrNoBillingCustomer means the workspace has no payment-provider
	// customer on record yet.
	ErrNoBillingCustomer = errors.New("workspace has no billing customer")

	// ErrUnknownPlan means the requested plan code is not in the catalog or
	// is not purchasable.
	ErrUnknownPlan = errors.New("unknown or non-purchasable plan")
)
