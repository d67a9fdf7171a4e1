// Package actions implements the validated mutation pipeline behind the
// dashboard forms: extract and validate input, compute derived values,
// persist uploads, run exactly one store mutation, then invalidate the
// affected listing view and navigate to it.
package actions

import (
	"github.com/udelbo/acme-admin/internal/forms"
)

// View keys of the cached listing views.
const (
	ViewInvoices  = "/dashboard/invoices"
	ViewCustomers = "/dashboard/customers"
	ViewDashboard = "/dashboard"
)

// Invalidator marks a cached listing view stale after a successful mutation.
type Invalidator interface {
	Invalidate(viewKey string)
}

// Navigator directs the caller to a listing view after a successful create or
// update. Deletes invalidate but never navigate.
type Navigator interface {
	NavigateTo(viewKey string)
}

// NopNavigator is the default Navigator: the HTTP layer reads the redirect
// target off the Result instead.
type NopNavigator struct{}

func (NopNavigator) NavigateTo(string) {}

// Result is the outcome of one pipeline invocation. Either Redirect is set
// (success with navigation), or Errors/Message describe the failure. A
// successful delete carries neither.
type Result struct {
	Redirect string            `json:"redirect,omitempty"`
	Errors   forms.FieldErrors `json:"errors,omitempty"`
	Message  string            `json:"message,omitempty"`
}

func (r Result) OK() bool {
	return r.Errors == nil && r.Message == ""
}

func success(redirect string) Result {
	return Result{Redirect: redirect}
}

func validationFailure(fe forms.FieldErrors, message string) Result {
	return Result{Errors: fe, Message: message}
}

func failure(message string) Result {
	return Result{Message: message}
}
