package actions

import (
	"bytes"
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/udelbo/acme-admin/internal/domain"
	"github.com/udelbo/acme-admin/internal/forms"
	"github.com/udelbo/acme-admin/internal/store"
	"github.com/udelbo/acme-admin/internal/uploads"
	"github.com/udelbo/acme-admin/pkg/common"
)

const (
	msgCustomerCreateMissing = "Missing Fields. Failed to Create Customer."
	msgCustomerUpdateMissing = "Missing Fields. Failed to Update Customer."
	msgCustomerCreateFailed  = "Database Error: Failed to Create Customer."
	msgCustomerUpdateFailed  = "Database Error: Failed to Update Customer."
	msgCustomerDeleteFailed  = "Database Error: Failed to Delete Customer."
	msgImageSaveFailed       = "Failed to save uploaded image."
)

// DefaultImageURL is assigned on create when the caller supplies no image.
const DefaultImageURL = "/customers/default.png"

// Customers runs the customer mutation pipeline.
type Customers struct {
	repo  store.CustomerRepository
	files uploads.Store
	views Invalidator
	nav   Navigator
	now   func() time.Time
}

func NewCustomers(repo store.CustomerRepository, files uploads.Store, views Invalidator, nav Navigator) *Customers {
	if nav == nil {
		nav = NopNavigator{}
	}
	return &Customers{repo: repo, files: files, views: views, nav: nav, now: time.Now}
}

// Create inserts one customer row. The image URL is taken from the form as
// submitted; uploads only happen on update.
func (s *Customers) Create(ctx context.Context, v forms.Values) Result {
	in, fe := forms.ValidateCreateCustomer(v)
	if fe != nil {
		return validationFailure(fe, msgCustomerCreateMissing)
	}

	imageURL := in.ImageURL
	if imageURL == "" {
		imageURL = DefaultImageURL
	}
	customer := &domain.Customer{
		ID:       common.UUIDint64(),
		Name:     in.Name,
		Email:    in.Email,
		ImageUrl: imageURL,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		zap.L().Error("create customer failed", zap.Error(err))
		return failure(msgCustomerCreateFailed)
	}

	s.views.Invalidate(ViewCustomers)
	s.nav.NavigateTo(ViewCustomers)
	return success(ViewCustomers)
}

// Update persists the uploaded profile image and then updates name, email and
// image_url in one statement. The file write must succeed before the store
// mutation runs; a failed write aborts the invocation with no mutation.
func (s *Customers) Update(ctx context.Context, id int64, v forms.Values) Result {
	in, fe := forms.ValidateUpdateCustomer(v)
	if fe != nil {
		return validationFailure(fe, msgCustomerUpdateMissing)
	}

	filename := uploads.StampedName(in.Image.Name, s.now())
	imageURL, err := s.files.Save(ctx, filename, bytes.NewReader(in.Image.Content), in.Image.Size, in.Image.Type)
	if err != nil {
		zap.L().Error("save customer image failed", zap.Int64("id", id), zap.String("file", filename), zap.Error(err))
		return failure(msgImageSaveFailed)
	}

	fields := map[string]interface{}{
		"name":      in.Name,
		"email":     in.Email,
		"image_url": imageURL,
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		zap.L().Error("update customer failed", zap.Int64("id", id), zap.Error(err))
		return failure(msgCustomerUpdateFailed)
	}

	s.views.Invalidate(ViewCustomers)
	s.nav.NavigateTo(ViewCustomers)
	return success(ViewCustomers)
}

// Delete removes the customer and invalidates the listing without navigating.
func (s *Customers) Delete(ctx context.Context, id int64) Result {
	if err := s.repo.Delete(ctx, id); err != nil {
		zap.L().Error("delete customer failed", zap.Int64("id", id), zap.Error(err))
		return failure(msgCustomerDeleteFailed)
	}
	s.views.Invalidate(ViewCustomers)
	return Result{}
}
