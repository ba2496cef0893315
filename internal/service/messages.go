package service

import (
	"context"
	"errors"

	"weather_session/internal/weather"
)

// User-facing texts.
const (
	MsgLoading         = "Loading weather..."
	MsgEmptyCity       = "Please enter a city name."
	MsgCityNotFound    = "City not found. Try again."
	MsgLoadFailed      = "Error loading weather data."
	MsgSearchCanceled  = "Search was replaced by a newer one."
	MsgRequestCanceled = "Request was canceled."
	MsgInvalidUsername = "Please enter a username."
	MsgInvalidPin      = "PIN must be exactly 4 digits."
	MsgDuplicateUser   = "That username is already taken."
	MsgUnknownUser     = "No account with that username."
	MsgWrongPin        = "Incorrect PIN."
	MsgNotSignedIn     = "Please sign in first."
)

// UserMessage maps a failure to the text shown to the user. Anything not
// recognized is reported as a load failure.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyCity), errors.Is(err, weather.ErrEmptyQuery):
		return MsgEmptyCity
	case errors.Is(err, weather.ErrNotFound):
		return MsgCityNotFound
	case errors.Is(err, ErrSuperseded):
		return MsgSearchCanceled
	case errors.Is(err, context.Canceled):
		return MsgRequestCanceled
	case errors.Is(err, ErrInvalidUsername):
		return MsgInvalidUsername
	case errors.Is(err, ErrInvalidPin):
		return MsgInvalidPin
	case errors.Is(err, ErrDuplicateUser):
		return MsgDuplicateUser
	case errors.Is(err, ErrUnknownUser):
		return MsgUnknownUser
	case errors.Is(err, ErrWrongPin):
		return MsgWrongPin
	case errors.Is(err, ErrNotSignedIn):
		return MsgNotSignedIn
	default:
		return MsgLoadFailed
	}
}
