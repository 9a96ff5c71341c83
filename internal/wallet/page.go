package wallet

// PageRequest selects a slice of a customer's transaction history. Page
// indexes are zero-based. A Size of zero or less means unpaged: every
// matching record is returned.
type PageRequest struct {
	Page int
	Size int
}

// Unpaged reports whether the request asks for the full result set.
func (p PageRequest) Unpaged() bool {
	return p.Size <= 0
}

// Offset returns the number of records to skip for a paged request.
func (p PageRequest) Offset() int {
	if p.Unpaged() || p.Page < 0 {
		return 0
	}
	return p.Page * p.Size
}

// TransactionPage is one page of a customer's history plus paging metadata.
type TransactionPage struct {
	Items      []Transaction
	Page       int
	Size       int
	TotalItems int64
	TotalPages int
}

func newTransactionPage(items []Transaction, req PageRequest, total int64) TransactionPage {
	page := TransactionPage{Items: items, TotalItems: total}
	if req.Unpaged() {
		page.Size = len(items)
		if total > 0 {
			page.TotalPages = 1
		}
		return page
	}
	page.Page = req.Page
	page.Size = req.Size
	page.TotalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	return page
}
