package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/udelbo/acme-admin/internal/auth"
	"github.com/udelbo/acme-admin/internal/webserver"
)

type loginPayload struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func registerAuthRoutes() {
	webserver.PubPOST("/auth/login", login)
}

// login signs the operator in and returns the session token. Classified
// sign-in failures map to their short user message; anything unclassified is
// returned to echo's error handler as-is.
func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	application := GetApp(c)
	opr, err := application.Auth().SignIn(c.Request().Context(), payload.Username, payload.Password)
	if err != nil {
		if msg, classified := auth.Classify(err); classified {
			return fail(c, http.StatusUnauthorized, "AUTH_FAILED", msg, nil)
		}
		return err
	}

	token, err := application.Auth().IssueToken(opr)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{
		"token":    token,
		"username": opr.Username,
		"realname": opr.Realname,
		"level":    opr.Level,
	})
}
