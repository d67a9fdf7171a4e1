// Package adminapi exposes the dashboard REST endpoints. Mutation handlers
// are thin: they extract raw form values and hand them to the pipeline in
// internal/actions; listing handlers read through the view cache.
package adminapi

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"mime/multipart"

	"github.com/udelbo/acme-admin/internal/actions"
	"github.com/udelbo/acme-admin/internal/app"
	"github.com/udelbo/acme-admin/internal/cacheview"
	"github.com/udelbo/acme-admin/internal/domain"
	"github.com/udelbo/acme-admin/internal/forms"
	"github.com/udelbo/acme-admin/internal/webserver"
	"github.com/udelbo/acme-admin/pkg/common"
)

// Init registers every admin route. Call once before the server starts.
func Init() {
	registerAuthRoutes()
	registerCustomerRoutes()
	registerInvoiceRoutes()
	registerDashboardRoutes()
}

func GetApp(c echo.Context) *app.Application {
	return webserver.AppFromContext(c)
}

func GetDB(c echo.Context) *gorm.DB {
	return webserver.AppFromContext(c).DB()
}

func GetViews(c echo.Context) *cacheview.Cache {
	return webserver.AppFromContext(c).Views()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{"data": data})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, echo.Map{
		"data":      data,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, echo.Map{"code": code, "message": message, "detail": detail})
}

// actionResult translates a pipeline Result into the HTTP envelope: success
// carries the redirect target, validation failures return the field errors,
// everything else is a storage-level failure.
func actionResult(c echo.Context, res actions.Result) error {
	switch {
	case res.OK():
		if res.Redirect != "" {
			return ok(c, echo.Map{"redirect": res.Redirect})
		}
		return ok(c, echo.Map{})
	case res.Errors != nil:
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": res.Errors, "message": res.Message})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": res.Message})
	}
}

func handleValidationError(c echo.Context, err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request parameters", fields)
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request parameters", nil)
}

func parsePagination(c echo.Context) (int, int) {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 20
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// formValues extracts the raw submitted fields for the pipeline: string
// fields as strings, file fields as []*forms.Upload.
func formValues(c echo.Context) forms.Values {
	v := forms.Values{}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for key, vals := range form.Value {
			if len(vals) > 0 {
				v[key] = vals[0]
			}
		}
		for key, files := range form.File {
			ups := make([]*forms.Upload, 0, len(files))
			for _, fh := range files {
				up, err := readUpload(fh)
				if err != nil {
					continue
				}
				ups = append(ups, up)
			}
			v[key] = ups
		}
		return v
	}
	if params, err := c.FormParams(); err == nil {
		for key, vals := range params {
			if len(vals) > 0 {
				v[key] = vals[0]
			}
		}
	}
	return v
}

func readUpload(fh *multipart.FileHeader) (*forms.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &forms.Upload{
		Name:    fh.Filename,
		Type:    fh.Header.Get(echo.HeaderContentType),
		Size:    fh.Size,
		Content: content,
	}, nil
}

// oprLog records a successful admin mutation in the operation log.
func oprLog(c echo.Context, action, desc string) {
	oprName := "unknown"
	if token, ok := c.Get("user").(*jwt.Token); ok {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, ok := claims["sub"].(string); ok {
				oprName = sub
			}
		}
	}
	GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   oprName,
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	})
}
