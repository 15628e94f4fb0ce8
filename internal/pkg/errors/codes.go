package errors

import "net/http"

var (
	ErrJourneyNotFound = New(
		"JOURNEY_NOT_FOUND",
		"No journey found for this ID",
		http.StatusNotFound,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInvalidQRPayload = New(
		"INVALID_QR_PAYLOAD",
		"QR payload could not be decoded",
		http.StatusBadRequest,
	)

	ErrPaymentRequired = New(
		"PAYMENT_REQUIRED",
		"Payment must be confirmed before scanning",
		http.StatusPaymentRequired,
	)

	ErrInvalidPayment = New(
		"INVALID_PAYMENT",
		"Invalid payment data",
		http.StatusBadRequest,
	)

	ErrJourneyNotComplete = New(
		"JOURNEY_NOT_COMPLETE",
		"Journey is not complete yet",
		http.StatusConflict,
	)

	ErrReceiptNotFound = New(
		"RECEIPT_NOT_FOUND",
		"No receipt archived for this journey",
		http.StatusNotFound,
	)

	ErrStorageError = New(
		"STORAGE_ERROR",
		"Session storage operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
