package forms

// User-facing validation messages. The customer form messages are localized,
// matching the admin UI language.
const (
	MsgSelectCustomer = "Please select a customer."
	MsgAmountRange    = "Please enter an amount greater than $0."
	MsgSelectStatus   = "Please select an invoice status."
	MsgCustomerName   = "Ingrese el nombre del cliente"
	MsgCustomerEmail  = "Email no válido"
	MsgNotAFile       = "Not a file"
	MsgMaxFileSize    = "Max file size allowed is 5MB"
	MsgImageType      = "File must be an image (jpeg, jpg, png, webp)"
)

const MaxImageSize = 5 * 1024 * 1024

var imageTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

var invoiceSchema = NewSchema(
	RequiredString{Field: "customerId", Message: MsgSelectCustomer},
	Amount{Field: "amount", Message: MsgAmountRange},
	OneOf{Field: "status", Allowed: []string{"pending", "paid"}, Message: MsgSelectStatus},
)

var customerSchema = NewSchema(
	RequiredString{Field: "name", Message: MsgCustomerName},
	Email{Field: "email", Message: MsgCustomerEmail},
)

var customerUpdateSchema = NewSchema(
	RequiredString{Field: "name", Message: MsgCustomerName},
	Email{Field: "email", Message: MsgCustomerEmail},
	ImageFile{
		Field:           "image_upload",
		MaxSize:         MaxImageSize,
		AllowedTypes:    imageTypes,
		NotAFileMessage: MsgNotAFile,
		SizeMessage:     MsgMaxFileSize,
		TypeMessage:     MsgImageType,
	},
)

// InvoiceInput is a validated invoice form. CustomerID stays a string here;
// the pipeline resolves it against the store.
type InvoiceInput struct {
	CustomerID string
	Amount     float64
	Status     string
}

// CustomerInput is a validated customer form. ImageURL carries the
// client-supplied value on create; Image carries the upload on update.
type CustomerInput struct {
	Name     string
	Email    string
	ImageURL string
	Image    *Upload
}

func ValidateInvoice(v Values) (*InvoiceInput, FieldErrors) {
	rec, fe := invoiceSchema.Validate(v)
	if fe != nil {
		return nil, fe
	}
	return &InvoiceInput{
		CustomerID: rec["customerId"].(string),
		Amount:     rec["amount"].(float64),
		Status:     rec["status"].(string),
	}, nil
}

func ValidateCreateCustomer(v Values) (*CustomerInput, FieldErrors) {
	rec, fe := customerSchema.Validate(v)
	if fe != nil {
		return nil, fe
	}
	in := &CustomerInput{
		Name:  rec["name"].(string),
		Email: rec["email"].(string),
	}
	if s, ok := v["image_url"].(string); ok {
		in.ImageURL = s
	}
	return in, nil
}

func ValidateUpdateCustomer(v Values) (*CustomerInput, FieldErrors) {
	rec, fe := customerUpdateSchema.Validate(v)
	if fe != nil {
		return nil, fe
	}
	return &CustomerInput{
		Name:  rec["name"].(string),
		Email: rec["email"].(string),
		Image: rec["image_upload"].(*Upload),
	}, nil
}
