package model

import (
	"strings"

	"github.com/google/uuid"
)

// Id prefixes per record kind.
const (
	PrefixOrder        = "ORD"
	PrefixLine         = "LN"
	PrefixIncome       = "INC"
	PrefixReversal     = "REV"
	PrefixPayment      = "PAY"
	PrefixVoucher      = "ACC"
	PrefixRequest      = "REQ"
	PrefixSalary       = "SAL"
	PrefixNotification = "NTF"
	PrefixBranch       = "BR"
	PrefixCategory     = "CAT"
	PrefixMenuItem     = "ITM"
	PrefixVariant      = "VAR"
	PrefixAddOn        = "ADD"
	PrefixStock        = "RM"
	PrefixPromo        = "PRM"
	PrefixUser         = "USR"
)

// NewID returns "<prefix>-<uuid>".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// ShortRef returns the human reference printed on receipts and ledger
// descriptions: the id segment after the first dash.
func ShortRef(id string) string {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) < 2 || parts[1] == "" {
		return id
	}
	return parts[1]
}
