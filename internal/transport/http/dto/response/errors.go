package response

import "time"

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status: "error",
		Error:  "authentication_failed",
	}

	ErrUserAlreadyExists = ErrorResponse{
		Status:  "error",
		Error:   "user_already_exists",
		Details: "User with this email already exists",
	}

	ErrInvalidAccessToken = ErrorResponse{
		Status:  "error",
		Error:   "invalid_access_token",
		Details: "Access token is missing or malformed",
	}

	ErrInvalidRefreshToken = ErrorResponse{
		Status:  "error",
		Error:   "invalid_refresh_token",
		Details: "Refresh token is missing or malformed",
	}

	ErrForbidden = ErrorResponse{
		Status:  "error",
		Error:   "forbidden",
		Details: "Operation not allowed for this user",
	}

	ErrNotFound = ErrorResponse{
		Status: "error",
		Error:  "not_found",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   "internal_error",
		Details: "Internal server error",
	}
)

// ExpiredTokenResponse reports an expired token together with its
// expiry timestamp so clients can tell staleness from tampering.
func ExpiredTokenResponse(expiredAt time.Time) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   "expired_token",
		Details: "Token expired at " + expiredAt.UTC().Format(time.RFC3339),
	}
}
