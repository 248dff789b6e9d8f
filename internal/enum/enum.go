package enum

// ── Group A: State machines ──

const (
	OrderStatusPending   = "PENDING"
	OrderStatusCooking   = "COOKING"
	OrderStatusReady     = "READY"
	OrderStatusServed    = "SERVED"
	OrderStatusCancelled = "CANCELLED"
)

const (
	RequestStatusPending  = "PENDING"
	RequestStatusApproved = "APPROVED"
	RequestStatusRejected = "REJECTED"
)

// ── Group B: Closed sets ──

const (
	UserRoleSuperAdmin    = "SUPER_ADMIN"
	UserRoleBranchManager = "BRANCH_MANAGER"
	UserRoleCashier       = "CASHIER"
	UserRoleWaiter        = "WAITER"
)

const (
	BranchTypeRestaurant = "RESTAURANT"
	BranchTypeFoodCart   = "FOOD_CART"
)

const (
	PaymentMethodCash  = "CASH"
	PaymentMethodBkash = "BKASH"
	PaymentMethodNagad = "NAGAD"
	PaymentMethodCard  = "CARD"
)

const (
	DiscountTypeFixed   = "FIXED"
	DiscountTypePercent = "PERCENT"
)

const (
	EntryTypeIncome  = "INCOME"
	EntryTypeExpense = "EXPENSE"
)

const (
	NotificationInfo    = "INFO"
	NotificationSuccess = "SUCCESS"
	NotificationWarning = "WARNING"
	NotificationError   = "ERROR"
)

// ── Group C: Filters ──

const (
	FrequencyAllTime = "ALL_TIME"
	FrequencyDaily   = "DAILY"
	FrequencyWeekly  = "WEEKLY"
	FrequencyMonthly = "MONTHLY"
	FrequencyYearly  = "YEARLY"
	FrequencyCustom  = "CUSTOM"
)

// BranchAll selects every branch in filters and reports.
const BranchAll = "ALL"

// ── Group D: Navigation permissions ──

const (
	PermDashboard  = "dashboard"
	PermPOS        = "pos"
	PermOrders     = "orders"
	PermBranches   = "branches"
	PermInventory  = "inventory"
	PermMenu       = "menu"
	PermCustomers  = "customers"
	PermStaff      = "staff"
	PermAccounting = "accounting"
	PermReports    = "reports"
	PermSettings   = "settings"
	PermWallet     = "wallet"
)

// PaymentMethods lists methods in reporting order.
var PaymentMethods = []string{
	PaymentMethodCash,
	PaymentMethodBkash,
	PaymentMethodNagad,
	PaymentMethodCard,
}

// Permissions lists every navigation permission.
var Permissions = []string{
	PermDashboard, PermPOS, PermOrders, PermBranches, PermInventory, PermMenu,
	PermCustomers, PermStaff, PermAccounting, PermReports, PermSettings, PermWallet,
}

var orderStatuses = map[string]bool{
	OrderStatusPending:   true,
	OrderStatusCooking:   true,
	OrderStatusReady:     true,
	OrderStatusServed:    true,
	OrderStatusCancelled: true,
}

var roles = map[string]bool{
	UserRoleSuperAdmin:    true,
	UserRoleBranchManager: true,
	UserRoleCashier:       true,
	UserRoleWaiter:        true,
}

func IsOrderStatus(s string) bool { return orderStatuses[s] }

func IsRole(s string) bool { return roles[s] }

func IsPaymentMethod(s string) bool {
	for _, m := range PaymentMethods {
		if m == s {
			return true
		}
	}
	return false
}

func IsBranchType(s string) bool {
	return s == BranchTypeRestaurant || s == BranchTypeFoodCart
}

func IsDiscountType(s string) bool {
	return s == DiscountTypeFixed || s == DiscountTypePercent
}

func IsEntryType(s string) bool {
	return s == EntryTypeIncome || s == EntryTypeExpense
}

func IsRequestStatus(s string) bool {
	return s == RequestStatusPending || s == RequestStatusApproved || s == RequestStatusRejected
}

func IsPermission(s string) bool {
	for _, p := range Permissions {
		if p == s {
			return true
		}
	}
	return false
}
