package enum

// ── Group A: Quota limit types ──

const (
	LimitProducts  = "products"
	LimitOrdersDay = "orders_day"
	LimitUsers     = "users"
)

// Defaults applied when the business row leaves the limit NULL.
const (
	DefaultLimitProducts  = 100
	DefaultLimitOrdersDay = 200
	DefaultLimitUsers     = 3
)

// ── Group B: Provisioning result codes (returned, not thrown) ──

const (
	CodeAlreadyHasBusiness = "ALREADY_HAS_BUSINESS"
	CodeAccountBlocked     = "ACCOUNT_BLOCKED"
	CodeInvalidInput       = "INVALID_INPUT"
)

// ── Group C: Event types (websocket type + AMQP routing key) ──

const (
	EventOrderStatusChanged = "order.status_changed"
	EventLowStock           = "inventory.low_stock"
	EventOrderSale          = "order.sale"
)
