// Package resp holds the machine-readable codes carried by API responses.
package resp

const (
	CodeOK                = "ok"
	CodeCreated           = "created"
	CodeQueued            = "queued"
	CodeAlreadyRegistered = "already_registered"
	CodeBadRequest        = "bad_request"
	CodeNotFound          = "not_found"
	CodeUnprocessable     = "unprocessable"
	CodeInternalError     = "internal_error"
)
