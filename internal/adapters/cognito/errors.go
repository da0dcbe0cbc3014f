package cognito

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"github.com/nptech/account-gateway/internal/domain/auth"
)

// mapError translates a Cognito SDK error into the standardized auth
// error taxonomy. Typed exceptions are checked first, then the generic
// smithy error code, then network-ish failures; anything unrecognized
// maps to KindUnknown with the original message preserved.
func mapError(err error) *auth.Error {
	if err == nil {
		return nil
	}
	var ae *auth.Error
	if errors.As(err, &ae) {
		return ae
	}

	var (
		userNotFound     *types.UserNotFoundException
		notAuthorized    *types.NotAuthorizedException
		notConfirmed     *types.UserNotConfirmedException
		invalidPassword  *types.InvalidPasswordException
		usernameExists   *types.UsernameExistsException
		codeMismatch     *types.CodeMismatchException
		expiredCode      *types.ExpiredCodeException
		tooManyRequests  *types.TooManyRequestsException
		limitExceeded    *types.LimitExceededException
		invalidParameter *types.InvalidParameterException
	)

	switch {
	case errors.As(err, &userNotFound):
		return auth.WrapError(auth.KindUserNotFound, "User not found", err)
	case errors.As(err, &notAuthorized):
		return mapNotAuthorized(err, notAuthorized.ErrorMessage())
	case errors.As(err, &notConfirmed):
		return auth.WrapError(auth.KindEmailNotVerified, "Email not verified", err)
	case errors.As(err, &invalidPassword):
		return auth.WrapError(auth.KindPasswordTooWeak, "Password does not meet requirements", err)
	case errors.As(err, &usernameExists):
		return auth.WrapError(auth.KindUserAlreadyExists, "User already exists", err)
	case errors.As(err, &codeMismatch):
		return auth.WrapError(auth.KindInvalidVerificationCode, "Invalid verification code", err)
	case errors.As(err, &expiredCode):
		return auth.WrapError(auth.KindCodeExpired, "Verification code has expired", err)
	case errors.As(err, &tooManyRequests), errors.As(err, &limitExceeded):
		return auth.WrapError(auth.KindTooManyAttempts, "Too many attempts. Please try again later.", err)
	case errors.As(err, &invalidParameter):
		return auth.WrapError(auth.KindUnknown, "Invalid parameter", err)
	}

	// Unmodeled service errors still carry a code.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return mapErrorCode(err, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}

	if isNetworkError(err) {
		return auth.WrapError(auth.KindNetworkError, "Network error. Please check your connection.", err)
	}

	return auth.WrapError(auth.KindUnknown, err.Error(), err)
}

// mapNotAuthorized splits Cognito's overloaded NotAuthorizedException
// by message: bad credentials, expired/revoked tokens, and everything
// else (access denied).
func mapNotAuthorized(err error, msg string) *auth.Error {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "incorrect username or password"):
		return auth.WrapError(auth.KindInvalidCredentials, "Invalid username or password", err)
	case strings.Contains(lower, "expired"):
		return auth.WrapError(auth.KindTokenExpired, "Session has expired", err)
	case strings.Contains(lower, "revoked"), strings.Contains(lower, "invalid token"):
		return auth.WrapError(auth.KindInvalidToken, "Session token is no longer valid", err)
	default:
		return auth.WrapError(auth.KindPermissionDenied, "Access denied", err)
	}
}

// mapErrorCode handles errors identified only by their service code,
// mirroring the typed mapping above.
func mapErrorCode(err error, code, msg string) *auth.Error {
	switch code {
	case "UserNotFoundException":
		return auth.WrapError(auth.KindUserNotFound, "User not found", err)
	case "NotAuthorizedException":
		return mapNotAuthorized(err, msg)
	case "UserNotConfirmedException":
		return auth.WrapError(auth.KindEmailNotVerified, "Email not verified", err)
	case "InvalidPasswordException":
		return auth.WrapError(auth.KindPasswordTooWeak, "Password does not meet requirements", err)
	case "UsernameExistsException":
		return auth.WrapError(auth.KindUserAlreadyExists, "User already exists", err)
	case "CodeMismatchException":
		return auth.WrapError(auth.KindInvalidVerificationCode, "Invalid verification code", err)
	case "ExpiredCodeException":
		return auth.WrapError(auth.KindCodeExpired, "Verification code has expired", err)
	case "TooManyRequestsException", "LimitExceededException":
		return auth.WrapError(auth.KindTooManyAttempts, "Too many attempts. Please try again later.", err)
	case "RequestError", "RequestCanceled", "RequestTimeout":
		return auth.WrapError(auth.KindNetworkError, "Network error. Please check your connection.", err)
	default:
		if msg == "" {
			msg = "Authentication error: " + code
		}
		return auth.WrapError(auth.KindUnknown, msg, err)
	}
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "network") ||
		strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "timeout")
}
