package models

import (
	"errors"
)

var ErrVendorNotFound = errors.New("vendor not found")
var ErrProjectNotFound = errors.New("project not found")
var ErrPurchaseOrderNotFound = errors.New("purchase order not found")
var ErrInvoiceNotFound = errors.New("invoice not found")
var ErrRequisitionNotFound = errors.New("check requisition not found")
var ErrDisbursementNotFound = errors.New("disbursement not found")
var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrUserNotFound       = errors.New("models: user not found")
	ErrInvalidPassword    = errors.New("models: invalid password")

	// ErrEntityImmutable is returned when a caller tries to mutate a record
	// that reached a terminal status (paid invoice, released disbursement).
	ErrEntityImmutable = errors.New("entity is immutable in its current status")

	// ErrCurrencyMismatch is returned when invoices of different currencies
	// are linked to one check requisition.
	ErrCurrencyMismatch = errors.New("linked invoices must share one currency")

	// ErrInvalidVoucherNumber is returned when a check voucher number fails
	// the Luhn check digit.
	ErrInvalidVoucherNumber = errors.New("invalid check voucher number")
)
