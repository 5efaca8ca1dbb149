package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients key their messages off these.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (CATALOG_) ====================
	CatalogProductNotFound   = "CATALOG_PRODUCT_NOT_FOUND"
	CatalogVariationNotFound = "CATALOG_VARIATION_NOT_FOUND"
	CatalogCategoryNotFound  = "CATALOG_CATEGORY_NOT_FOUND"
	CatalogInvalidDocument   = "CATALOG_INVALID_DOCUMENT"
	CatalogSyncInProgress    = "CATALOG_SYNC_IN_PROGRESS"
	CatalogSourceUnavailable = "CATALOG_SOURCE_UNAVAILABLE"

	// ==================== Cart (CART_) ====================
	CartInvalidQuantity = "CART_INVALID_QUANTITY" // quantity below 1
	CartOutOfStock      = "CART_OUT_OF_STOCK"
	CartPersistFailed   = "CART_PERSIST_FAILED" // change kept in memory only
	CartEmpty           = "CART_EMPTY"

	// ==================== Checkout (CHECKOUT_) ====================
	CheckoutInvalidForm = "CHECKOUT_INVALID_FORM"
	CheckoutInProgress  = "CHECKOUT_IN_PROGRESS"

	// ==================== Payment (PAYMENT_) ====================
	PaymentFailed       = "PAYMENT_FAILED"        // gateway rejected the push
	PaymentNetworkError = "PAYMENT_NETWORK_ERROR" // gateway unreachable

	// ==================== Assistant (ASSISTANT_) ====================
	AssistantEmptyMessage = "ASSISTANT_EMPTY_MESSAGE"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
