// Package services defines the business logic for click reconciliation,
// reputation scanning, and notification delivery. This file centralizes
// common service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Click-recording errors.
var (
	// ErrGroupNotFound indicates that the referenced campaign group does not
	// exist. Surfaced as 404; a missing group never produces a write.
	ErrGroupNotFound = errors.New("group not found")

	// ErrReconcileConflict is returned when the results write kept losing the
	// optimistic-concurrency race and the retry budget ran out. Surfaced as a
	// generic internal error; the caller may retry the whole request.
	ErrReconcileConflict = errors.New("could not reconcile results, too many concurrent writers")
)

// Reputation-scan errors. Each one marks the stage at which the scanner
// interaction failed so handlers can emit stage-specific codes.
var (
	// ErrEmptyURL is returned when a scan request carries no URL.
	ErrEmptyURL = errors.New("url is empty")

	// ErrScanSubmission indicates the scan job could not be submitted.
	ErrScanSubmission = errors.New("scan submission failed")

	// ErrScanPoll indicates a transport failure while polling job status.
	// Polling is not retried within the request.
	ErrScanPoll = errors.New("scan status poll failed")

	// ErrScanTimeout indicates the job did not reach a terminal status within
	// the configured ceiling.
	ErrScanTimeout = errors.New("scan timed out")
)

// Notification errors.
var (
	// ErrEmailDelivery indicates the delivery collaborator rejected or failed
	// the send.
	ErrEmailDelivery = errors.New("email delivery failed")

	// ErrEmptyRecipient is returned when a send request names no recipient
	// address.
	ErrEmptyRecipient = errors.New("recipient is empty")

	// ErrEmptyContent is returned when a content-scan request carries no
	// message body.
	ErrEmptyContent = errors.New("email content is empty")
)
