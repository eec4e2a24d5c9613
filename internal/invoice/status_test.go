package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPermittedActions(t *testing.T) {
	tests := []struct {
		name    string
		summary Summary
		role    Role
		want    []Action
	}{
		{name: "owner pays tentative", summary: Summary{Status: StatusTentative}, role: RoleOwner, want: []Action{ActionView, ActionPay}},
		{name: "accounting verifies partial", summary: Summary{Status: StatusPartialPaid}, role: RoleAccounting, want: []Action{ActionView, ActionVerifyPayment}},
		{name: "super admin on overdue", summary: Summary{Status: StatusOverdue}, role: RoleSuperAdmin, want: []Action{ActionView, ActionPay, ActionVerifyPayment}},
		{name: "blocked hides pay from owner", summary: Summary{Status: StatusOverdue, IsBlocked: true}, role: RoleOwner, want: []Action{ActionView}},
		{name: "accounting unblocks", summary: Summary{Status: StatusTentative, IsBlocked: true}, role: RoleAccounting, want: []Action{ActionView, ActionUnblock}},
		{name: "paid is closed", summary: Summary{Status: StatusPaid}, role: RoleAccounting, want: []Action{ActionView}},
		{name: "blocked cancelled stays closed", summary: Summary{Status: StatusCancelled, IsBlocked: true}, role: RoleSuperAdmin, want: []Action{ActionView}},
		{name: "draft", summary: Summary{Status: StatusDraft}, role: RoleOwner, want: []Action{ActionView}},
		{name: "unknown status", summary: Summary{Status: "refunded"}, role: RoleOwner, want: nil},
		{name: "unknown role", summary: Summary{Status: StatusTentative}, role: "guest", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PermittedActions(tt.summary, tt.role))
		})
	}
}

func TestPermittedActionsDoesNotLeakTable(t *testing.T) {
	s := Summary{Status: StatusTentative}
	got := PermittedActions(s, RoleOwner)
	got[0] = ActionUnblock

	assert.Equal(t, []Action{ActionView, ActionPay}, PermittedActions(s, RoleOwner))
}

func TestEveryKnownStatusIsCovered(t *testing.T) {
	statuses := []Status{StatusDraft, StatusTentative, StatusPartialPaid, StatusPaid, StatusOverdue, StatusCancelled}
	roles := []Role{RoleOwner, RoleBranchAdmin, RoleAccounting, RoleSuperAdmin}

	for _, st := range statuses {
		for _, blocked := range []bool{false, true} {
			for _, r := range roles {
				assert.True(t, Can(Summary{Status: st, IsBlocked: blocked}, r, ActionView), "%s blocked=%v %s", st, blocked, r)
			}
		}
	}
}

func TestCategoryOf(t *testing.T) {
	amount := decimal.NewFromInt(1000)

	assert.Equal(t, "unpaid", CategoryOf(Summary{Status: StatusTentative, TotalAmount: amount}).Code)
	assert.Equal(t, "blocked", CategoryOf(Summary{Status: StatusPartialPaid, IsBlocked: true}).Code)
	assert.Equal(t, "paid", CategoryOf(Summary{Status: StatusPaid, IsBlocked: true}).Code)
	assert.Equal(t, "unknown", CategoryOf(Summary{Status: "x"}).Code)
	assert.Equal(t, "Jatuh Tempo", CategoryOf(Summary{Status: StatusOverdue}).Label)
}
