package enum

// ── Order item fulfillment states (CHECK constrained in DB) ──
// Mirrors orderview.Status; kept here so SQL-facing code does not import the
// view package.

const (
	OrderItemStatusPending   = "pending"
	OrderItemStatusPreparing = "preparing"
	OrderItemStatusCompleted = "completed"
	OrderItemStatusServed    = "served"
)

const (
	OrderStatusOpen      = "OPEN"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// ── Staff roles (CHECK constrained in DB) ──

const (
	UserRoleOwner   = "OWNER"
	UserRoleManager = "MANAGER"
	UserRoleCashier = "CASHIER"
	UserRoleKitchen = "KITCHEN"
)

// ── WebSocket event types ──

const (
	EventCartUpdated  = "cart.updated"
	EventKitchenReady = "kitchen.ready"
)
