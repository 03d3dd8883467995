package apperrors

var (
	// Credential store
	ErrFieldsRequired   = InvalidArg("all fields are required")
	ErrUsernameLength   = InvalidArg("username must be 3 to 20 characters")
	ErrPasswordTooShort = InvalidArg("password must be at least 6 characters")
	ErrCredentialTaken  = AlreadyExists("username or email already exists")
	ErrBadCredentials   = Unauthorized("invalid username or password")
	ErrInvalidToken     = Unauthorized("invalid token")

	// Contacts and chats
	ErrUserNotFound  = NotFound("user not found")
	ErrSelfContact   = InvalidArg("cannot add yourself as a contact")
	ErrSelfChat      = InvalidArg("cannot create a chat with yourself")
	ErrChatNotFound  = NotFound("chat not found")
	ErrNotChatMember = Forbidden("not a chat member")

	// Messages
	ErrEmptyMessage   = InvalidArg("message text is required")
	ErrContactIDReq   = InvalidArg("contact_id required")
	ErrChatIDRequired = InvalidArg("chat_id required")
	ErrUsernameReq    = InvalidArg("username required")
	ErrUnknownAction  = InvalidArg("unknown action")
)
