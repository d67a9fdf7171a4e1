package adminapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/udelbo/acme-admin/internal/actions"
	"github.com/udelbo/acme-admin/internal/domain"
	"github.com/udelbo/acme-admin/internal/webserver"
)

// registerCustomerRoutes registers customer CRUD routes
func registerCustomerRoutes() {
	webserver.ApiGET("/customers", listCustomers)
	webserver.ApiGET("/customers/:id", getCustomer)
	webserver.ApiPOST("/customers", createCustomer)
	webserver.ApiPUT("/customers/:id", updateCustomer)
	webserver.ApiDELETE("/customers/:id", deleteCustomer)
}

type customerPage struct {
	Rows  []domain.Customer `json:"rows"`
	Total int64             `json:"total"`
}

func listCustomers(c echo.Context) error {
	page, pageSize := parsePagination(c)
	q := strings.TrimSpace(c.QueryParam("q"))

	key := fmt.Sprintf("%s?page=%d&size=%d&q=%s", actions.ViewCustomers, page, pageSize, q)
	cached, err := GetViews(c).Get(key, 0, func() (interface{}, error) {
		db := GetDB(c).Model(&domain.Customer{})
		if q != "" {
			if strings.EqualFold(db.Name(), "postgres") {
				db = db.Where("name ILIKE ? OR email ILIKE ?", "%"+q+"%", "%"+q+"%")
			} else {
				db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?",
					"%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
			}
		}
		var result customerPage
		if err := db.Count(&result.Total).Error; err != nil {
			return nil, err
		}
		if err := db.Order("name ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&result.Rows).Error; err != nil {
			return nil, err
		}
		return &result, nil
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	result := cached.(*customerPage)
	return paged(c, result.Rows, result.Total, page, pageSize)
}

func getCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var customer domain.Customer
	if err := GetDB(c).Where("id = ?", id).First(&customer).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}
	return ok(c, customer)
}

func createCustomer(c echo.Context) error {
	res := GetApp(c).CustomerActions().Create(c.Request().Context(), formValues(c))
	if res.OK() {
		oprLog(c, "create_customer", "created customer")
	}
	return actionResult(c, res)
}

func updateCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	res := GetApp(c).CustomerActions().Update(c.Request().Context(), id, formValues(c))
	if res.OK() {
		oprLog(c, "update_customer", fmt.Sprintf("updated customer %d", id))
	}
	return actionResult(c, res)
}

func deleteCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	res := GetApp(c).CustomerActions().Delete(c.Request().Context(), id)
	if res.OK() {
		oprLog(c, "delete_customer", fmt.Sprintf("deleted customer %d", id))
		return ok(c, echo.Map{"id": id})
	}
	return actionResult(c, res)
}
