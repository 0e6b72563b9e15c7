package errors

import "errors"

var (
	ErrInvalidLead             = errors.New("invalid lead")
	ErrInvalidLeadID           = errors.New("invalid lead id")
	ErrInvalidEvent            = errors.New("invalid event")
	ErrInvalidFilter           = errors.New("invalid lead filter")
	ErrInvalidReportWindow     = errors.New("invalid report window")
	ErrDuplicateLead           = errors.New("lead already exists")
	ErrLeadNotFound            = errors.New("lead not found")
	ErrAugmentationFailed      = errors.New("lead augmentation failed")
	ErrAugmentationUnavailable = errors.New("lead augmentation unavailable")
	ErrMalformedPayload        = errors.New("malformed event payload")
)
