package errors

const (
	InvalidTokenError         = "Token is invalid"
	InvalidCredentials        = "Invalid email or password"
	EmailAlreadyExist         = "Email already exists in database"
	ErrorToken                = "Error generating token"
	InvalidRequestFormatError = "Invalid request format"

	RequestNotFound          = "Request not found"
	InvalidStatusTransition  = "Status transition is not allowed"
	TerminalStatusError      = "Request is already in a terminal status"
	ListingNotFound          = "Listing not found"
	InvalidOfferStatus       = "Offer status must be accepted, rejected or withdrawn"
	InvalidTransactionStatus = "Transaction status must be pending, success or failed"
	InvalidAmountError       = "Amount must be greater than zero"
	ReviewAlreadyExists      = "Review for this target already exists"
	InvalidRatingError       = "Rating must be between 1 and 5"
	CommentTooShortError     = "Comment must be at least 10 characters long"
	ConfirmationRequired     = "Bulk send requires explicit confirmation"
	UnknownAudienceError     = "Unknown notification audience"
	UserSuspendedError       = "User account is suspended"
	ProviderNotApproved      = "Service provider is not approved"
)
