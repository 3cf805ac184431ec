package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The frontend maps these codes to display messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"
	AuthEmailExists        = "AUTH_EMAIL_EXISTS"
	AuthPhoneExists        = "AUTH_PHONE_EXISTS"
	AuthWrongPassword      = "AUTH_WRONG_PASSWORD"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFilter = "VALIDATION_INVALID_FILTER"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Recipe (RECIPE_) ====================
	RecipeNotFound    = "RECIPE_NOT_FOUND"
	RecipeTitleExists = "RECIPE_TITLE_EXISTS"

	// ==================== Feedback (FEEDBACK_) ====================
	FeedbackNotFound      = "FEEDBACK_NOT_FOUND"
	FeedbackInvalidRating = "FEEDBACK_INVALID_RATING"
	CommentNotFound       = "COMMENT_NOT_FOUND"
	CommentParentNotFound = "COMMENT_PARENT_NOT_FOUND"

	// ==================== Saved recipes (SAVE_) ====================
	SaveAlreadyExists = "SAVE_ALREADY_EXISTS"
	SaveNotFound      = "SAVE_NOT_FOUND"

	// ==================== Items/descriptors (ITEM_) ====================
	ItemNotFound       = "ITEM_NOT_FOUND"
	DescriptorNotFound = "DESCRIPTOR_NOT_FOUND"
	TermNotFound       = "TERM_NOT_FOUND"

	// ==================== Grocery (GROCERY_) ====================
	GroceryStoreNotFound = "GROCERY_STORE_NOT_FOUND"
	GroceryAreaNotFound  = "GROCERY_AREA_NOT_FOUND"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
