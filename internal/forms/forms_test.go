package forms

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInvoiceSuccess(t *testing.T) {
	in, fe := ValidateInvoice(Values{
		"customerId": "42",
		"amount":     "10.50",
		"status":     "pending",
	})
	require.Nil(t, fe)
	assert.Equal(t, "42", in.CustomerID)
	assert.Equal(t, 10.50, in.Amount)
	assert.Equal(t, "pending", in.Status)
}

func TestValidateInvoiceAmountRejected(t *testing.T) {
	for _, amount := range []string{"0", "-3", "abc", ""} {
		in, fe := ValidateInvoice(Values{
			"customerId": "42",
			"amount":     amount,
			"status":     "paid",
		})
		require.Nil(t, in, "amount %q must not validate", amount)
		assert.Equal(t, []string{MsgAmountRange}, fe["amount"])
	}
}

func TestValidateInvoiceMissingEverything(t *testing.T) {
	in, fe := ValidateInvoice(Values{})
	require.Nil(t, in)
	assert.Equal(t, []string{MsgSelectCustomer}, fe["customerId"])
	assert.Equal(t, []string{MsgAmountRange}, fe["amount"])
	assert.Equal(t, []string{MsgSelectStatus}, fe["status"])
}

func TestValidateInvoiceStatusOutsideEnum(t *testing.T) {
	for _, status := range []string{"open", "PAID", "Pending", ""} {
		in, fe := ValidateInvoice(Values{
			"customerId": "1",
			"amount":     "5",
			"status":     status,
		})
		require.Nil(t, in, "status %q must not validate", status)
		assert.Equal(t, []string{MsgSelectStatus}, fe["status"])
	}
}

func TestValidateInvoiceAmountCoercion(t *testing.T) {
	in, fe := ValidateInvoice(Values{
		"customerId": "1",
		"amount":     " 10.1 ",
		"status":     "paid",
	})
	require.Nil(t, fe)
	assert.Equal(t, 10.1, in.Amount)
}

func TestValidateCreateCustomer(t *testing.T) {
	in, fe := ValidateCreateCustomer(Values{
		"name":      "Delba de Oliveira",
		"email":     "delba@oliveira.com",
		"image_url": "/customers/delba.png",
	})
	require.Nil(t, fe)
	assert.Equal(t, "Delba de Oliveira", in.Name)
	assert.Equal(t, "delba@oliveira.com", in.Email)
	assert.Equal(t, "/customers/delba.png", in.ImageURL)
}

func TestValidateCreateCustomerMessages(t *testing.T) {
	in, fe := ValidateCreateCustomer(Values{
		"name":  "  ",
		"email": "not-an-email",
	})
	require.Nil(t, in)
	assert.Equal(t, []string{MsgCustomerName}, fe["name"])
	assert.Equal(t, []string{MsgCustomerEmail}, fe["email"])
}

func TestValidateUpdateCustomerNotAFile(t *testing.T) {
	in, fe := ValidateUpdateCustomer(Values{
		"name":         "Amy Burns",
		"email":        "amy@burns.com",
		"image_upload": "definitely-not-a-file",
	})
	require.Nil(t, in)
	// The fatal issue short-circuits the remaining file checks.
	assert.Equal(t, []string{MsgNotAFile}, fe["image_upload"])
}

func TestValidateUpdateCustomerFileIssuesAccumulate(t *testing.T) {
	up := &Upload{
		Name:    "huge.bin",
		Type:    "application/octet-stream",
		Size:    6 * 1024 * 1024,
		Content: bytes.Repeat([]byte{0}, 16),
	}
	in, fe := ValidateUpdateCustomer(Values{
		"name":         "Amy Burns",
		"email":        "amy@burns.com",
		"image_upload": up,
	})
	require.Nil(t, in)
	assert.Equal(t, []string{MsgMaxFileSize, MsgImageType}, fe["image_upload"])
}

func TestValidateUpdateCustomerFieldsIndependent(t *testing.T) {
	up := &Upload{Name: "x.png", Type: "image/png", Size: 6 * 1024 * 1024}
	in, fe := ValidateUpdateCustomer(Values{
		"name":         "",
		"email":        "bad",
		"image_upload": up,
	})
	require.Nil(t, in)
	assert.Equal(t, []string{MsgCustomerName}, fe["name"])
	assert.Equal(t, []string{MsgCustomerEmail}, fe["email"])
	assert.Equal(t, []string{MsgMaxFileSize}, fe["image_upload"])
}

func TestValidateUpdateCustomerUnwrapsFirstFile(t *testing.T) {
	first := &Upload{Name: "a.jpg", Type: "image/jpeg", Size: 10}
	second := &Upload{Name: "b.jpg", Type: "image/jpeg", Size: 20}
	in, fe := ValidateUpdateCustomer(Values{
		"name":         "Amy Burns",
		"email":        "amy@burns.com",
		"image_upload": []*Upload{first, second},
	})
	require.Nil(t, fe)
	assert.Same(t, first, in.Image)
}

func TestValidateUpdateCustomerAcceptedTypes(t *testing.T) {
	for _, mime := range []string{"image/jpeg", "image/jpg", "image/png", "image/webp", "IMAGE/PNG"} {
		up := &Upload{Name: "pic", Type: mime, Size: 1024}
		_, fe := ValidateUpdateCustomer(Values{
			"name":         "Amy Burns",
			"email":        "amy@burns.com",
			"image_upload": up,
		})
		assert.Nil(t, fe, "type %s should be accepted", mime)
	}

	up := &Upload{Name: "pic.gif", Type: "image/gif", Size: 1024}
	_, fe := ValidateUpdateCustomer(Values{
		"name":         "Amy Burns",
		"email":        "amy@burns.com",
		"image_upload": up,
	})
	assert.Equal(t, []string{MsgImageType}, fe["image_upload"])
}

func TestSchemaNoPartialSuccess(t *testing.T) {
	rec, fe := invoiceSchema.Validate(Values{
		"customerId": "42",
		"amount":     "10",
		"status":     "bogus",
	})
	assert.Nil(t, rec)
	assert.Len(t, fe, 1)
}
