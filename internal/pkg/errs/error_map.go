package errs

import "net/http"

// errorMap holds the template CustomError for every known code. Entries with
// no Status default to HTTP 200; business failures ride the envelope code,
// not the transport status, except where the status itself matters to
// clients (401/403/404/429/500).
var errorMap = map[int]CustomError{
	// 1xxx: request handling
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large."},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: room and message business logic
	ErrRoomNotFound:       {Code: ErrRoomNotFound, Message: "Room not found.", Status: http.StatusNotFound},
	ErrMessageNotFound:    {Code: ErrMessageNotFound, Message: "Message not found.", Status: http.StatusNotFound},
	ErrMessageBodyEmpty:   {Code: ErrMessageBodyEmpty, Message: "Message body is required."},
	ErrMessageBodyTooLong: {Code: ErrMessageBodyTooLong, Message: "Message is too long."},
	ErrFileSizeTooLarge:   {Code: ErrFileSizeTooLarge, Message: "File is too large."},
	ErrFileTypeInvalid:    {Code: ErrFileTypeInvalid, Message: "File type is not allowed."},

	// 3xxx: user, session, and authorization
	ErrAlreadyLoggedIn:    {Code: ErrAlreadyLoggedIn, Message: "You are already signed in."},
	ErrInvalidUsername:    {Code: ErrInvalidUsername, Message: "Invalid username."},
	ErrInvalidEmail:       {Code: ErrInvalidEmail, Message: "Invalid email address."},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Invalid password."},
	ErrPasswordMismatch:   {Code: ErrPasswordMismatch, Message: "Passwords do not match."},
	ErrUsernameTaken:      {Code: ErrUsernameTaken, Message: "A user with this username already exists."},
	ErrEmailTaken:         {Code: ErrEmailTaken, Message: "A user with this email already exists."},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect username or password."},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "Account not found."},
	ErrOldPasswordInvalid: {Code: ErrOldPasswordInvalid, Message: "Current password is incorrect."},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrForbidden:          {Code: ErrForbidden, Message: "You are not allowed to modify this.", Status: http.StatusForbidden},

	// 5xxx: internal
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusInternalServerError},
}
