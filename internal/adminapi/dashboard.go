package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"

	"github.com/udelbo/acme-admin/internal/actions"
	"github.com/udelbo/acme-admin/internal/domain"
	"github.com/udelbo/acme-admin/internal/webserver"
)

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard/cards", dashboardCards)
	webserver.ApiGET("/dashboard/revenue", dashboardRevenue)
}

const dashboardMaxAge = time.Minute

type cardData struct {
	CustomerCount int64 `json:"customer_count"`
	InvoiceCount  int64 `json:"invoice_count"`
	PaidTotal     int64 `json:"paid_total"`
	PendingTotal  int64 `json:"pending_total"`
}

func dashboardCards(c echo.Context) error {
	key := actions.ViewDashboard + "?cards"
	cached, err := GetViews(c).Get(key, dashboardMaxAge, func() (interface{}, error) {
		db := GetDB(c)
		var cards cardData
		if err := db.Model(&domain.Customer{}).Count(&cards.CustomerCount).Error; err != nil {
			return nil, err
		}
		if err := db.Model(&domain.Invoice{}).Count(&cards.InvoiceCount).Error; err != nil {
			return nil, err
		}
		row := db.Model(&domain.Invoice{}).
			Select("coalesce(sum(case when status = 'paid' then amount else 0 end), 0), " +
				"coalesce(sum(case when status = 'pending' then amount else 0 end), 0)").
			Row()
		if err := row.Scan(&cards.PaidTotal, &cards.PendingTotal); err != nil {
			return nil, err
		}
		return &cards, nil
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query dashboard cards", err.Error())
	}
	return ok(c, cached)
}

type revenueData struct {
	Months       []domain.Revenue `json:"months"`
	MonthlyMean  float64          `json:"monthly_mean"`
	MonthlyMax   float64          `json:"monthly_max"`
	AnnualTotal  int64            `json:"annual_total"`
	MonthsFilled int              `json:"months_filled"`
}

func dashboardRevenue(c echo.Context) error {
	key := actions.ViewDashboard + "?revenue"
	cached, err := GetViews(c).Get(key, dashboardMaxAge, func() (interface{}, error) {
		var months []domain.Revenue
		if err := GetDB(c).Order("id ASC").Find(&months).Error; err != nil {
			return nil, err
		}

		data := &revenueData{Months: months}
		values := make([]float64, 0, len(months))
		for _, m := range months {
			values = append(values, float64(m.Revenue))
			data.AnnualTotal += m.Revenue
			if m.Revenue > 0 {
				data.MonthsFilled++
			}
		}
		if len(values) > 0 {
			data.MonthlyMean, _ = stats.Mean(values)
			data.MonthlyMax, _ = stats.Max(values)
		}
		return data, nil
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query revenue", err.Error())
	}
	return ok(c, cached)
}
