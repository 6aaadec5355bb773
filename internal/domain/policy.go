package domain

import "fmt"

// Operation identifies a gated action on a target account's resources.
type Operation string

const (
	OpViewAccount      Operation = "account.view"
	OpCreateAccount    Operation = "account.create"
	OpResetPassword    Operation = "account.reset_password"
	OpAssignCredit     Operation = "credit.assign"
	OpRevokeCredit     Operation = "credit.revoke"
	OpViewTransactions Operation = "transactions.view"
	OpViewShipment     Operation = "shipment.view"
	OpRefundLabel      Operation = "label.refund"
)

// DenyReason categorizes why an authorization decision failed.
type DenyReason string

const (
	DenyUnauthenticated   DenyReason = "UNAUTHENTICATED"
	DenyForbiddenRole     DenyReason = "FORBIDDEN_ROLE"
	DenyForbiddenNotOwner DenyReason = "FORBIDDEN_NOT_OWNER"
)

// PermissionError is the categorized denial returned by Authorize.
type PermissionError struct {
	Reason DenyReason
	Op     Operation
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied (%s) for %s", e.Reason, e.Op)
}

func deny(op Operation, reason DenyReason) *PermissionError {
	return &PermissionError{Reason: reason, Op: op}
}

// Authorize decides whether actor may perform op against target.
// It is pure: no side effects, no storage access. Callers must pass
// accounts freshly loaded from storage, never state cached in a token.
func Authorize(actor *Account, op Operation, target *Account) error {
	if actor == nil {
		return deny(op, DenyUnauthenticated)
	}

	if target == nil {
		target = actor
	}

	switch actor.Role {
	case RoleSuperAdmin:
		// Unrestricted across every operation.
		return nil

	case RoleReseller:
		return authorizeReseller(actor, op, target)

	case RoleUser:
		return authorizeUser(actor, op, target)

	default:
		// Roles are normalized at the load boundary; anything else is
		// an unauthenticated or corrupted principal.
		return deny(op, DenyUnauthenticated)
	}
}

func authorizeReseller(actor *Account, op Operation, target *Account) error {
	self := actor.ID == target.ID
	created := target.IsCreatedBy(actor.ID)

	switch op {
	case OpAssignCredit, OpRevokeCredit:
		// Resellers may only fund USER accounts they created.
		if self {
			return deny(op, DenyForbiddenNotOwner)
		}
		if !created {
			return deny(op, DenyForbiddenNotOwner)
		}
		if target.Role != RoleUser {
			return deny(op, DenyForbiddenRole)
		}
		return nil

	case OpResetPassword:
		// Same creator-chain rule as credit operations; a reseller may
		// not reset another reseller's password.
		if self {
			return nil
		}
		if !created {
			return deny(op, DenyForbiddenNotOwner)
		}
		if target.Role != RoleUser {
			return deny(op, DenyForbiddenRole)
		}
		return nil

	case OpViewAccount, OpViewTransactions, OpViewShipment, OpRefundLabel:
		if self || created {
			return nil
		}
		return deny(op, DenyForbiddenNotOwner)

	case OpCreateAccount:
		return nil

	default:
		return deny(op, DenyForbiddenRole)
	}
}

func authorizeUser(actor *Account, op Operation, target *Account) error {
	self := actor.ID == target.ID

	switch op {
	case OpViewAccount, OpViewTransactions, OpViewShipment, OpRefundLabel, OpResetPassword:
		if self {
			return nil
		}
		return deny(op, DenyForbiddenNotOwner)

	case OpAssignCredit, OpRevokeCredit, OpCreateAccount:
		return deny(op, DenyForbiddenRole)

	default:
		return deny(op, DenyForbiddenRole)
	}
}
