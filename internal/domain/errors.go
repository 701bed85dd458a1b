package domain

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid notification request")
	ErrInvalidQuietHours  = errors.New("invalid quiet hours")
	ErrInvalidDevice      = errors.New("invalid device")
	ErrNotFound           = errors.New("not found")
	ErrNoActiveAdmins     = errors.New("no active admins")
	ErrPersistenceFailure = errors.New("notification persistence failed")
)

// Channel failure reasons recorded on the notification record.
const (
	ReasonNoDevices = "no devices"
	ReasonNoEmail   = "no email"
	ReasonTimeout   = "timeout"
)
