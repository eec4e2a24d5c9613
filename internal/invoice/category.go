package invoice

type Category struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

var categories = map[Status]Category{
	StatusDraft:       {"draft", "Draft"},
	StatusTentative:   {"unpaid", "Belum Bayar"},
	StatusPartialPaid: {"partial", "Bayar Sebagian"},
	StatusPaid:        {"paid", "Lunas"},
	StatusOverdue:     {"overdue", "Jatuh Tempo"},
	StatusCancelled:   {"cancelled", "Dibatalkan"},
}

var (
	blockedCategory = Category{"blocked", "Diblokir"}
	unknownCategory = Category{"unknown", "Tidak Diketahui"}
)

// CategoryOf maps an invoice to the label shown in lists. A block only
// overrides invoices that are still open.
func CategoryOf(s Summary) Category {
	c, ok := categories[s.Status]
	if !ok {
		return unknownCategory
	}
	if s.IsBlocked && isOpen(s.Status) {
		return blockedCategory
	}
	return c
}

func isOpen(s Status) bool {
	return s == StatusTentative || s == StatusPartialPaid || s == StatusOverdue
}
