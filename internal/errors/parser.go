package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo carries a parsed error code and user-facing message.
type ErrorInfo struct {
	Code    string // error code constant (see codes.go)
	Message string
}

// ParseError converts a raw database/service error into an ErrorInfo. It
// hides driver internals but keeps enough context for the caller to act on.
// context is a short hint like "attribute", "combination create".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "an internal error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM base errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. Constraint violations (Postgres wording; sqlite in tests matches
	//    the same substrings for unique constraints)

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr, context)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "a required field is missing",
		}
	}

	// 2-4. Check constraint violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "input value is out of range",
		}
	}

	// 3. Connection-level failures
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "the database is temporarily unavailable, please retry",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseDuplicateKeyError maps a unique constraint violation to a domain code
// based on the index name embedded in the driver message.
func parseDuplicateKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "uq_product_attributes_attr") {
		return ErrorInfo{
			Code:    AttributeAlreadyAttached,
			Message: "this attribute is already attached to the product",
		}
	}
	if strings.Contains(errLower, "uq_category_attributes_attr") {
		return ErrorInfo{
			Code:    AttributeAlreadyAttached,
			Message: "this attribute is already attached to the category",
		}
	}
	if strings.Contains(errLower, "uq_product_combinations_hash") {
		return ErrorInfo{
			Code:    CombinationExists,
			Message: "a price combination for this exact selection already exists",
		}
	}
	if strings.Contains(errLower, "uq_global_attributes_name") {
		return ErrorInfo{
			Code:    AttributeNameExists,
			Message: "an attribute with this name already exists",
		}
	}
	if strings.Contains(errLower, "uq_global_attribute_options_value") {
		return ErrorInfo{
			Code:    OptionValueExists,
			Message: "this option value already exists for the attribute",
		}
	}
	if strings.Contains(errLower, "uq_products_sku") {
		return ErrorInfo{
			Code:    ProductSKUExists,
			Message: "this SKU is already in use",
		}
	}
	if strings.Contains(errLower, "uq_categories_slug") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "this category slug is already in use",
		}
	}
	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "this record already exists, please retry",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "this record already exists",
	}
}

// parseForeignKeyError maps missing or still-referenced rows to domain codes.
func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "the record is referenced by other data and cannot be deleted",
		}
	}

	if strings.Contains(errLower, "product_id") || strings.Contains(errLower, "fk_products") {
		return ErrorInfo{
			Code:    ProductNotFound,
			Message: "the referenced product does not exist",
		}
	}
	if strings.Contains(errLower, "category_id") || strings.Contains(errLower, "fk_categories") {
		return ErrorInfo{
			Code:    CategoryNotFound,
			Message: "the referenced category does not exist",
		}
	}
	if strings.Contains(errLower, "attribute_id") || strings.Contains(errLower, "fk_global_attributes") {
		return ErrorInfo{
			Code:    AttributeNotFound,
			Message: "the referenced attribute does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "a referenced record does not exist",
	}
}

// getNotFoundMessage picks a not-found message by context hint.
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "combination") {
		return "price combination not found"
	}
	if strings.Contains(contextLower, "option") {
		return "option not found"
	}
	if strings.Contains(contextLower, "value") {
		return "attribute value not found"
	}
	if strings.Contains(contextLower, "attribute") {
		return "attribute not found"
	}
	if strings.Contains(contextLower, "category") {
		return "category not found"
	}
	if strings.Contains(contextLower, "product") {
		return "product not found"
	}

	return "the requested record was not found"
}

// getDefaultErrorMessage picks a generic failure message by operation hint.
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "attach") {
		return "failed to create the record, please retry"
	}
	if strings.Contains(contextLower, "update") {
		return "failed to update the record, please retry"
	}
	if strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "remove") {
		return "failed to delete the record, please retry"
	}

	return "an internal error occurred, please retry"
}
