package errors

import "net/http"

// Ошибки удалённого API
var (
	ErrNetworkUnavailable = New(
		"NETWORK_UNAVAILABLE",
		"No internet connection",
		http.StatusServiceUnavailable,
	).WithSuggestion("Check your connection and try again. Cached stations are still available offline.")

	ErrNetworkTimeout = New(
		"NETWORK_TIMEOUT",
		"The river data service took too long to respond",
		http.StatusGatewayTimeout,
	).WithSuggestion("Try again in a moment.")

	ErrServerError = New(
		"SERVER_ERROR",
		"The river data service returned an error",
		http.StatusBadGateway,
	).WithSuggestion("The problem is on our side. Try again later.")

	ErrParseError = New(
		"PARSE_ERROR",
		"Received malformed station data",
		http.StatusBadGateway,
	).WithSuggestion("Try again later. If the problem persists, report this station.")
)

// Ошибки валидации имени
var (
	ErrInvalidName = New(
		"INVALID_NAME",
		"Name must not be empty",
		http.StatusBadRequest,
	).WithSuggestion("Enter a name with at least one visible character.")

	ErrNoOriginalName = New(
		"NO_ORIGINAL_NAME",
		"No original name is known for this station",
		http.StatusConflict,
	).WithSuggestion("Open the station while online to learn its name.")

	ErrNameNotFound = New(
		"NAME_NOT_FOUND",
		"No name information stored for this station",
		http.StatusNotFound,
	)
)

var (
	ErrInvalidStationID = New(
		"INVALID_STATION_ID",
		"Invalid station ID",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidUser = New(
		"INVALID_USER",
		"User ID is required",
		http.StatusUnauthorized,
	)

	ErrFavoriteNotFound = New(
		"FAVORITE_NOT_FOUND",
		"Favorite not found",
		http.StatusNotFound,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrRequestCancelled = New(
		"REQUEST_CANCELLED",
		"Client closed request",
		499,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
