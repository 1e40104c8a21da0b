/*
Package errs defines the application error type and the business error codes
shared between the server and its clients.
*/
package errs

// 1xxx: request handling
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates an unsupported Content-Type header.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates a malformed JSON request body.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing data after the JSON document.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates the request body exceeded the size limit.
	ErrRequestEntityTooLarge = 1005

	// ErrRateLimitExceeded indicates the client exceeded a per-IP rate limit.
	ErrRateLimitExceeded = 1006
)

// 2xxx: room and message business logic
const (
	// ErrRoomNotFound indicates that no room exists for the requested id.
	ErrRoomNotFound = 2101

	// ErrMessageNotFound indicates that no message exists for the requested id.
	ErrMessageNotFound = 2201

	// ErrMessageBodyEmpty indicates a message submission without body text.
	ErrMessageBodyEmpty = 2202

	// ErrMessageBodyTooLong indicates a message body over the length limit.
	ErrMessageBodyTooLong = 2203

	// ErrFileSizeTooLarge indicates an avatar upload over the size limit.
	ErrFileSizeTooLarge = 2301

	// ErrFileTypeInvalid indicates an avatar upload with a disallowed type.
	ErrFileTypeInvalid = 2302
)

// 3xxx: user, session, and authorization
const (
	// ErrAlreadyLoggedIn indicates a register/login attempt with a valid session.
	ErrAlreadyLoggedIn = 3001

	// ErrInvalidUsername indicates a username outside the allowed format.
	ErrInvalidUsername = 3002

	// ErrInvalidEmail indicates an address that does not look like an email.
	ErrInvalidEmail = 3003

	// ErrInvalidPassword indicates a password outside the allowed length.
	ErrInvalidPassword = 3004

	// ErrPasswordMismatch indicates the confirmation did not match the password.
	ErrPasswordMismatch = 3005

	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = 3006

	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = 3007

	// ErrInvalidCredentials indicates a failed login. Deliberately generic.
	ErrInvalidCredentials = 3008

	// ErrUserNotFound indicates the account behind a valid token no longer resolves.
	ErrUserNotFound = 3009

	// ErrOldPasswordInvalid indicates the current password check failed on change.
	ErrOldPasswordInvalid = 3010

	// ErrUnauthorized indicates a request that requires a signed-in user.
	ErrUnauthorized = 3011

	// ErrForbidden indicates the signed-in user is not the host/author of the target.
	ErrForbidden = 3012
)

// 5xxx: internal
const (
	// ErrUnknown is the catch-all internal server error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates the object storage backend failed or is absent.
	ErrFileStorageFailed = 5001
)
