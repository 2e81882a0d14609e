package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The storefront and admin frontends map these codes to their own messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidType   = "VALIDATION_INVALID_TYPE"
	ValidationRequired      = "VALIDATION_REQUIRED"
	ValidationTypeMismatch  = "VALIDATION_TYPE_MISMATCH"
	ValidationInvalidOption = "VALIDATION_INVALID_OPTION"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Attributes (ATTRIBUTE_) ====================
	AttributeNotFound        = "ATTRIBUTE_NOT_FOUND"
	AttributeNameExists      = "ATTRIBUTE_NAME_EXISTS"
	AttributeAlreadyAttached = "ATTRIBUTE_ALREADY_ATTACHED"
	AttributeInUse           = "ATTRIBUTE_IN_USE"
	AttributeNotAttached     = "ATTRIBUTE_NOT_ATTACHED"
	AttributeNotEnumerated   = "ATTRIBUTE_NOT_ENUMERATED"

	// ==================== Options (OPTION_) ====================
	OptionNotFound      = "OPTION_NOT_FOUND"
	OptionValueExists   = "OPTION_VALUE_EXISTS"
	OptionTierAmbiguous = "OPTION_TIER_AMBIGUOUS"

	// ==================== Pricing (PRICING_) ====================
	PricingIncompleteSelection = "PRICING_INCOMPLETE_SELECTION"
	CombinationNotFound        = "COMBINATION_NOT_FOUND"
	CombinationExists          = "COMBINATION_EXISTS"

	// ==================== Catalog (CATALOG_) ====================
	CategoryNotFound = "CATEGORY_NOT_FOUND"
	ProductNotFound  = "PRODUCT_NOT_FOUND"
	ProductSKUExists = "PRODUCT_SKU_EXISTS"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalCascadeFailed = "INTERNAL_CASCADE_FAILED"
)
