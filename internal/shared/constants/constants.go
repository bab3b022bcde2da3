package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// User history endpoint bounds.
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderDeliveryID    = "X-Delivery-ID"

	// Gin context keys set by middleware.
	ContextKeySubject = "subject"
	ContextKeyRole    = "role"

	RoleAdmin    = "admin"
	RoleOperator = "operator"
)
