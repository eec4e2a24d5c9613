package invoice

import "github.com/shopspring/decimal"

type Status string

const (
	StatusDraft       Status = "draft"
	StatusTentative   Status = "tentative"
	StatusPartialPaid Status = "partial_paid"
	StatusPaid        Status = "paid"
	StatusOverdue     Status = "overdue"
	StatusCancelled   Status = "cancelled"
)

type Role string

const (
	RoleOwner       Role = "owner"
	RoleBranchAdmin Role = "branch_admin"
	RoleAccounting  Role = "accounting"
	RoleSuperAdmin  Role = "super_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleBranchAdmin, RoleAccounting, RoleSuperAdmin:
		return true
	}
	return false
}

type Action string

const (
	ActionView          Action = "view"
	ActionPay           Action = "pay"
	ActionVerifyPayment Action = "verify_payment"
	ActionUnblock       Action = "unblock"
)

// Summary is the invoice as reported by the invoice service. Read only here.
type Summary struct {
	ID              string          `json:"id"`
	OwnerID         string          `json:"owner_id"`
	Status          Status          `json:"status"`
	IsBlocked       bool            `json:"is_blocked"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

type key struct {
	status  Status
	blocked bool
}

var (
	viewOnly   = []Action{ActionView}
	payable    = []Action{ActionView, ActionPay}
	verifiable = []Action{ActionView, ActionVerifyPayment}
	unblock    = []Action{ActionView, ActionUnblock}
)

// open invoices: tagihan masih berjalan
var openActions = map[Role][]Action{
	RoleOwner:       payable,
	RoleBranchAdmin: payable,
	RoleAccounting:  verifiable,
	RoleSuperAdmin:  {ActionView, ActionPay, ActionVerifyPayment},
}

// blocked invoices wait for an unblock before anything else
var blockedActions = map[Role][]Action{
	RoleOwner:       viewOnly,
	RoleBranchAdmin: viewOnly,
	RoleAccounting:  unblock,
	RoleSuperAdmin:  unblock,
}

var closedActions = map[Role][]Action{
	RoleOwner:       viewOnly,
	RoleBranchAdmin: viewOnly,
	RoleAccounting:  viewOnly,
	RoleSuperAdmin:  viewOnly,
}

var permitted = map[key]map[Role][]Action{
	{StatusDraft, false}:       closedActions,
	{StatusDraft, true}:        closedActions,
	{StatusTentative, false}:   openActions,
	{StatusTentative, true}:    blockedActions,
	{StatusPartialPaid, false}: openActions,
	{StatusPartialPaid, true}:  blockedActions,
	{StatusOverdue, false}:     openActions,
	{StatusOverdue, true}:      blockedActions,
	{StatusPaid, false}:        closedActions,
	{StatusPaid, true}:         closedActions,
	{StatusCancelled, false}:   closedActions,
	{StatusCancelled, true}:    closedActions,
}

// PermittedActions lists what role may do with the invoice. Unknown statuses
// and roles get nothing. The summary is never modified.
func PermittedActions(s Summary, role Role) []Action {
	acts := permitted[key{s.Status, s.IsBlocked}][role]
	return append([]Action(nil), acts...)
}

// Can reports whether a single action is offered.
func Can(s Summary, role Role, a Action) bool {
	for _, x := range permitted[key{s.Status, s.IsBlocked}][role] {
		if x == a {
			return true
		}
	}
	return false
}
