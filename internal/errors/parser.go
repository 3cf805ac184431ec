package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorInfo carries the mapped code and a user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// Postgres error classes we care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ParseError maps a raw database error to a code and message that can be
// returned to clients without leaking driver internals. context is a short
// hint like "recipe" or "user signup" used to pick a specific message.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An unexpected error occurred",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return parseDuplicateKeyError(pqErr.Constraint + " " + pqErr.Detail)
		case pgForeignKeyViolation:
			return parseForeignKeyError(pqErr.Constraint+" "+pqErr.Detail, context)
		case pgNotNullViolation:
			return parseNotNullError(pqErr.Column)
		case pgCheckViolation:
			return parseCheckConstraintError(pqErr.Constraint)
		}
	}

	// SQLite (tests) and other drivers fall back to message inspection.
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint"):
		return parseDuplicateKeyError(errStr)
	case strings.Contains(errStr, "foreign key constraint"):
		return parseForeignKeyError(errStr, context)
	case strings.Contains(errStr, "not null constraint") || strings.Contains(errStr, "not-null constraint"):
		return parseNotNullError(errStr)
	case strings.Contains(errStr, "check constraint"):
		return parseCheckConstraintError(errStr)
	case strings.Contains(errStr, "connection refused"),
		strings.Contains(errStr, "no such host"),
		strings.Contains(errStr, "timeout"):
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Failed to reach an external service. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(detail string) ErrorInfo {
	d := strings.ToLower(detail)

	switch {
	case strings.Contains(d, "username"):
		return ErrorInfo{Code: AuthUsernameExists, Message: "This username is already taken"}
	case strings.Contains(d, "email"):
		return ErrorInfo{Code: AuthEmailExists, Message: "This email is already registered"}
	case strings.Contains(d, "phone"):
		return ErrorInfo{Code: AuthPhoneExists, Message: "This phone number is already registered"}
	case strings.Contains(d, "title"):
		return ErrorInfo{Code: RecipeTitleExists, Message: "A recipe with this title already exists"}
	case strings.Contains(d, "saved_recipes"):
		return ErrorInfo{Code: SaveAlreadyExists, Message: "You have already saved this recipe"}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyError(detail, context string) ErrorInfo {
	d := strings.ToLower(detail)

	if strings.Contains(d, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Cannot delete because other records still reference it",
		}
	}

	switch {
	case strings.Contains(d, "recipe_id") || strings.Contains(d, "fk_recipes"):
		return ErrorInfo{Code: RecipeNotFound, Message: "Recipe not found"}
	case strings.Contains(d, "author") || strings.Contains(d, "user"):
		return ErrorInfo{Code: ResourceNotFound, Message: "User not found"}
	case strings.Contains(d, "feedback_id"):
		return ErrorInfo{Code: FeedbackNotFound, Message: "Feedback not found"}
	case strings.Contains(d, "item_name") || strings.Contains(d, "fk_items"):
		return ErrorInfo{Code: ItemNotFound, Message: "Item not found"}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record could not be found",
	}
}

func parseNotNullError(column string) ErrorInfo {
	c := strings.ToLower(column)

	switch {
	case strings.Contains(c, "email"):
		return ErrorInfo{Code: ValidationRequired, Message: "Email is required"}
	case strings.Contains(c, "password"):
		return ErrorInfo{Code: ValidationRequired, Message: "Password is required"}
	case strings.Contains(c, "username"):
		return ErrorInfo{Code: ValidationRequired, Message: "Username is required"}
	case strings.Contains(c, "title"):
		return ErrorInfo{Code: ValidationRequired, Message: "Title is required"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "A required field is missing",
	}
}

func parseCheckConstraintError(constraint string) ErrorInfo {
	c := strings.ToLower(constraint)

	if strings.Contains(c, "score") || strings.Contains(c, "rating") {
		return ErrorInfo{
			Code:    FeedbackInvalidRating,
			Message: "Rating must be between 1 and 5",
		}
	}

	return ErrorInfo{
		Code:    ValidationInvalidInput,
		Message: "Input value is not valid",
	}
}

func getNotFoundMessage(context string) string {
	c := strings.ToLower(context)

	switch {
	case strings.Contains(c, "recipe"):
		return "Recipe not found"
	case strings.Contains(c, "user"):
		return "User not found"
	case strings.Contains(c, "feedback"):
		return "Feedback not found"
	case strings.Contains(c, "comment"):
		return "Comment not found"
	case strings.Contains(c, "item"):
		return "Item not found"
	case strings.Contains(c, "store"):
		return "Store not found"
	case strings.Contains(c, "term"):
		return "Term not found"
	}

	return "The requested record could not be found"
}

func getDefaultErrorMessage(context string) string {
	c := strings.ToLower(context)

	switch {
	case strings.Contains(c, "create") || strings.Contains(c, "signup"):
		return "Failed to create the record. Please try again later"
	case strings.Contains(c, "update"):
		return "Failed to update the record. Please try again later"
	case strings.Contains(c, "delete"):
		return "Failed to delete the record. Please try again later"
	}

	return "An unexpected error occurred. Please try again later"
}

// ParseAndRespond parses a database error and writes the mapped response.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
