package adminapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/udelbo/acme-admin/internal/actions"
	"github.com/udelbo/acme-admin/internal/domain"
	"github.com/udelbo/acme-admin/internal/webserver"
)

// registerInvoiceRoutes registers invoice CRUD and listing routes
func registerInvoiceRoutes() {
	webserver.ApiGET("/invoices", listInvoices)
	webserver.ApiGET("/invoices/latest", latestInvoices)
	webserver.ApiGET("/invoices/export", exportInvoices)
	webserver.ApiGET("/invoices/:id", getInvoice)
	webserver.ApiPOST("/invoices", createInvoice)
	webserver.ApiPUT("/invoices/:id", updateInvoice)
	webserver.ApiDELETE("/invoices/:id", deleteInvoice)
}

// invoiceRow is an invoice joined with its customer for listings and exports.
type invoiceRow struct {
	ID            int64  `json:"id,string" csv:"id" gorm:"column:id"`
	CustomerId    int64  `json:"customer_id,string" csv:"customer_id" gorm:"column:customer_id"`
	CustomerName  string `json:"customer_name" csv:"customer" gorm:"column:customer_name"`
	CustomerEmail string `json:"customer_email" csv:"email" gorm:"column:customer_email"`
	ImageUrl      string `json:"image_url" csv:"-" gorm:"column:image_url"`
	Amount        int64  `json:"amount" csv:"amount_cents" gorm:"column:amount"`
	Status        string `json:"status" csv:"status" gorm:"column:status"`
	Date          string `json:"date" csv:"date" gorm:"column:date"`
}

func invoiceQuery(db *gorm.DB, c echo.Context) *gorm.DB {
	query := db.Table("invoices").
		Select("invoices.id, invoices.customer_id, customers.name as customer_name, " +
			"customers.email as customer_email, customers.image_url, " +
			"invoices.amount, invoices.status, invoices.date").
		Joins("left join customers on customers.id = invoices.customer_id")

	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			query = query.Where("customers.name ILIKE ? OR customers.email ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			query = query.Where("LOWER(customers.name) LIKE ? OR LOWER(customers.email) LIKE ?",
				"%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
		}
	}
	if status := c.QueryParam("status"); status == domain.InvoiceStatusPending || status == domain.InvoiceStatusPaid {
		query = query.Where("invoices.status = ?", status)
	}
	if from := c.QueryParam("from"); from != "" {
		if t, err := dateparse.ParseAny(from); err == nil {
			query = query.Where("invoices.date >= ?", t.Format("2006-01-02"))
		}
	}
	if to := c.QueryParam("to"); to != "" {
		if t, err := dateparse.ParseAny(to); err == nil {
			query = query.Where("invoices.date <= ?", t.Format("2006-01-02"))
		}
	}
	return query
}

type invoicePage struct {
	Rows  []invoiceRow `json:"rows"`
	Total int64        `json:"total"`
}

func listInvoices(c echo.Context) error {
	page, pageSize := parsePagination(c)

	key := fmt.Sprintf("%s?page=%d&size=%d&q=%s&status=%s&from=%s&to=%s",
		actions.ViewInvoices, page, pageSize,
		c.QueryParam("q"), c.QueryParam("status"), c.QueryParam("from"), c.QueryParam("to"))
	cached, err := GetViews(c).Get(key, 0, func() (interface{}, error) {
		query := invoiceQuery(GetDB(c), c)
		var result invoicePage
		if err := query.Count(&result.Total).Error; err != nil {
			return nil, err
		}
		if err := query.Order("invoices.date DESC").
			Offset((page - 1) * pageSize).Limit(pageSize).
			Scan(&result.Rows).Error; err != nil {
			return nil, err
		}
		return &result, nil
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query invoices", err.Error())
	}
	result := cached.(*invoicePage)
	return paged(c, result.Rows, result.Total, page, pageSize)
}

func latestInvoices(c echo.Context) error {
	key := actions.ViewInvoices + "?latest"
	cached, err := GetViews(c).Get(key, 0, func() (interface{}, error) {
		var rows []invoiceRow
		err := GetDB(c).Table("invoices").
			Select("invoices.id, invoices.customer_id, customers.name as customer_name, " +
				"customers.email as customer_email, customers.image_url, " +
				"invoices.amount, invoices.status, invoices.date").
			Joins("left join customers on customers.id = invoices.customer_id").
			Order("invoices.date DESC").Limit(5).
			Scan(&rows).Error
		return rows, err
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query invoices", err.Error())
	}
	return ok(c, cached)
}

// exportInvoices streams the filtered invoice listing as CSV.
func exportInvoices(c echo.Context) error {
	var rows []invoiceRow
	if err := invoiceQuery(GetDB(c), c).Order("invoices.date DESC").Scan(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query invoices", err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="invoices_%s.csv"`, time.Now().Format("20060102")))
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(&rows, c.Response())
}

func getInvoice(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid invoice ID", nil)
	}
	var invoice domain.Invoice
	if err := GetDB(c).Where("id = ?", id).First(&invoice).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "INVOICE_NOT_FOUND", "Invoice not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query invoice", err.Error())
	}
	return ok(c, invoice)
}

func createInvoice(c echo.Context) error {
	res := GetApp(c).InvoiceActions().Create(c.Request().Context(), formValues(c))
	if res.OK() {
		oprLog(c, "create_invoice", "created invoice")
	}
	return actionResult(c, res)
}

func updateInvoice(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid invoice ID", nil)
	}
	res := GetApp(c).InvoiceActions().Update(c.Request().Context(), id, formValues(c))
	if res.OK() {
		oprLog(c, "update_invoice", fmt.Sprintf("updated invoice %d", id))
	}
	return actionResult(c, res)
}

func deleteInvoice(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid invoice ID", nil)
	}
	res := GetApp(c).InvoiceActions().Delete(c.Request().Context(), id)
	if res.OK() {
		oprLog(c, "delete_invoice", fmt.Sprintf("deleted invoice %d", id))
		return ok(c, echo.Map{"id": id})
	}
	return actionResult(c, res)
}
