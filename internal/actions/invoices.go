package actions

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/udelbo/acme-admin/internal/domain"
	"github.com/udelbo/acme-admin/internal/forms"
	"github.com/udelbo/acme-admin/internal/store"
	"github.com/udelbo/acme-admin/pkg/common"
)

const (
	msgInvoiceCreateMissing = "Missing Fields. Failed to Create Invoice."
	msgInvoiceUpdateMissing = "Missing Fields. Failed to Update Invoice."
	msgInvoiceCreateFailed  = "Database Error: Failed to Create Invoice."
	msgInvoiceUpdateFailed  = "Database Error: Failed to Update Invoice."
	msgInvoiceDeleteFailed  = "Database Error: Failed to Delete Invoice."
)

// Invoices runs the invoice mutation pipeline.
type Invoices struct {
	repo  store.InvoiceRepository
	views Invalidator
	nav   Navigator
}

func NewInvoices(repo store.InvoiceRepository, views Invalidator, nav Navigator) *Invoices {
	if nav == nil {
		nav = NopNavigator{}
	}
	return &Invoices{repo: repo, views: views, nav: nav}
}

// Create validates the submitted form, derives the stored amount and date and
// inserts one invoice row.
func (s *Invoices) Create(ctx context.Context, v forms.Values) Result {
	in, fe := forms.ValidateInvoice(v)
	if fe != nil {
		return validationFailure(fe, msgInvoiceCreateMissing)
	}
	customerID, err := strconv.ParseInt(in.CustomerID, 10, 64)
	if err != nil {
		fe = forms.FieldErrors{}
		fe.Add("customerId", forms.MsgSelectCustomer)
		return validationFailure(fe, msgInvoiceCreateMissing)
	}

	invoice := &domain.Invoice{
		ID:         common.UUIDint64(),
		CustomerId: customerID,
		Amount:     ToMinorUnits(in.Amount),
		Status:     in.Status,
		Date:       Today(),
	}
	if err := s.repo.Create(ctx, invoice); err != nil {
		zap.L().Error("create invoice failed", zap.Error(err))
		return failure(msgInvoiceCreateFailed)
	}

	s.views.Invalidate(ViewInvoices)
	s.nav.NavigateTo(ViewInvoices)
	return success(ViewInvoices)
}

// Update validates the form and updates the four mutable fields of the
// invoice in one statement. The stored date is replaced with the validated
// form date when supplied, otherwise kept by the caller passing it through.
func (s *Invoices) Update(ctx context.Context, id int64, v forms.Values) Result {
	in, fe := forms.ValidateInvoice(v)
	if fe != nil {
		return validationFailure(fe, msgInvoiceUpdateMissing)
	}
	customerID, err := strconv.ParseInt(in.CustomerID, 10, 64)
	if err != nil {
		fe = forms.FieldErrors{}
		fe.Add("customerId", forms.MsgSelectCustomer)
		return validationFailure(fe, msgInvoiceUpdateMissing)
	}

	fields := map[string]interface{}{
		"customer_id": customerID,
		"amount":      ToMinorUnits(in.Amount),
		"status":      in.Status,
	}
	if date, ok := v["date"].(string); ok && date != "" {
		fields["date"] = date
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		zap.L().Error("update invoice failed", zap.Int64("id", id), zap.Error(err))
		return failure(msgInvoiceUpdateFailed)
	}

	s.views.Invalidate(ViewInvoices)
	s.nav.NavigateTo(ViewInvoices)
	return success(ViewInvoices)
}

// Delete removes the invoice and invalidates the listing without navigating.
// Deleting an absent id is not an error; the store treats it the same way.
func (s *Invoices) Delete(ctx context.Context, id int64) Result {
	if err := s.repo.Delete(ctx, id); err != nil {
		zap.L().Error("delete invoice failed", zap.Int64("id", id), zap.Error(err))
		return failure(msgInvoiceDeleteFailed)
	}
	s.views.Invalidate(ViewInvoices)
	return Result{}
}
