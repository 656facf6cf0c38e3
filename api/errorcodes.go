package api

const (
	CategoryDatabase      = ErrorCategory("Database")
	CategoryUser          = ErrorCategory("User") // used for errors related to user input, validation, etc.
	CategoryForbidden     = ErrorCategory("Forbidden")
	CategoryUnauthorized  = ErrorCategory("Unauthorized")
	CategoryNotFound      = ErrorCategory("NotFound")
	CategoryConflict      = ErrorCategory("Conflict")      // state conflicts: duplicates, illegal transitions, stale updates
	CategoryUnprocessable = ErrorCategory("Unprocessable") // well-formed input that fails evidence requirements
	CategoryInternal      = ErrorCategory("Internal")      // used for internal server errors, not related to bad user input
)

const (
	// General

	ErrorCreateFailure         = ErrorKey("ErrorCreateFailure")
	ErrorDestroyFailure        = ErrorKey("ErrorDestroyFailure")
	ErrorGenericInternalServer = ErrorKey("ErrorGenericInternalServer")
	ErrorForeignKeyViolation   = ErrorKey("ErrorForeignKeyViolation")
	ErrorInvalidRequestBody    = ErrorKey("ErrorInvalidRequestBody")
	ErrorMustBeAValidUUID      = ErrorKey("ErrorMustBeAValidUUID")
	ErrorNoRows                = ErrorKey("ErrorNoRows")
	ErrorNotAuthorized         = ErrorKey("ErrorNotAuthorized")
	ErrorQueryFailure          = ErrorKey("ErrorQueryFailure")
	ErrorSaveFailure           = ErrorKey("ErrorSaveFailure")
	ErrorTransactionNotFound   = ErrorKey("ErrorTransactionNotFound")
	ErrorUniqueKeyViolation    = ErrorKey("ErrorUniqueKeyViolation")
	ErrorUnknown               = ErrorKey("ErrorUnknown")
	ErrorUpdateFailure         = ErrorKey("ErrorUpdateFailure")
	ErrorValidation            = ErrorKey("ErrorValidation")

	// Authentication
	ErrorCreatingAccessToken = ErrorKey("ErrorCreatingAccessToken")
	ErrorFindingAccessToken  = ErrorKey("ErrorFindingAccessToken")

	// Authorization
	ErrorInvalidResourceID = ErrorKey("ErrorInvalidResourceID")
	ErrorResourceNotFound  = ErrorKey("ErrorResourceNotFound")

	// File
	ErrorFileAlreadyLinked       = ErrorKey("ErrorFileAlreadyLinked")
	ErrorFilenameRequired        = ErrorKey("ErrorFilenameRequired")
	ErrorReceivingFile           = ErrorKey("ErrorReceivingFile")
	ErrorStoreFileBadContentType = ErrorKey("ErrorStoreFileBadContentType")
	ErrorStoreFileTooLarge       = ErrorKey("ErrorStoreFileTooLarge")
	ErrorUnableToReadFile        = ErrorKey("ErrorUnableToReadFile")
	ErrorUnableToStoreFile       = ErrorKey("ErrorUnableToStoreFile")

	// Alert
	ErrorAlertFromContext = ErrorKey("ErrorAlertFromContext")
	ErrorAlertInvalidType = ErrorKey("ErrorAlertInvalidType")
	ErrorAlertNotFound    = ErrorKey("ErrorAlertNotFound")
	ErrorAlertStatus      = ErrorKey("ErrorAlertStatus")

	// Claim
	ErrorClaimFromContext            = ErrorKey("ErrorClaimFromContext")
	ErrorClaimStatus                 = ErrorKey("ErrorClaimStatus")
	ErrorClaimTransitionNotAllowed   = ErrorKey("ErrorClaimTransitionNotAllowed")
	ErrorClaimSelfForbidden          = ErrorKey("ErrorClaimSelfForbidden")
	ErrorClaimDuplicatePending       = ErrorKey("ErrorClaimDuplicatePending")
	ErrorClaimInsufficientEvidence   = ErrorKey("ErrorClaimInsufficientEvidence")
	ErrorClaimMissingEvidence        = ErrorKey("ErrorClaimMissingEvidence")
	ErrorClaimConcurrentModification = ErrorKey("ErrorClaimConcurrentModification")

	// Chat
	ErrorChatRoomFromContext = ErrorKey("ErrorChatRoomFromContext")
	ErrorChatNoApprovedClaim = ErrorKey("ErrorChatNoApprovedClaim")
	ErrorChatAccessRevoked   = ErrorKey("ErrorChatAccessRevoked")
	ErrorChatNotParticipant  = ErrorKey("ErrorChatNotParticipant")
	ErrorChatEmptyMessage    = ErrorKey("ErrorChatEmptyMessage")
)
