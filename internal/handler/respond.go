package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/service"
	"github.com/iliyamo/auth-service/internal/token"
)

const (
	clientHeader  = "X-Client"
	clientAndroid = "android"

	accessCookie  = "access"
	refreshCookie = "refresh"
)

// respondTokens delivers a token pair to the client. Native clients identify
// themselves with "X-Client: android" and get the tokens in the JSON body;
// everyone else is assumed to be a browser and gets HttpOnly cookies so
// scripts never see the raw tokens. A pair with an empty refresh slot (a
// rotation outside the renewal window) only delivers the access token.
func respondTokens(c echo.Context, status int, pair service.TokenPair, engine *token.Engine) error {
	if c.Request().Header.Get(clientHeader) == clientAndroid {
		body := echo.Map{"access": pair.Access}
		if pair.Refresh != "" {
			body["refresh"] = pair.Refresh
		}
		return c.JSON(status, body)
	}

	c.SetCookie(tokenCookie(accessCookie, pair.Access, int(engine.AccessTTL().Seconds())))
	if pair.Refresh != "" {
		c.SetCookie(tokenCookie(refreshCookie, pair.Refresh, int(engine.RefreshTTL().Seconds())))
	}
	return c.JSON(status, echo.Map{"status": "ok"})
}

// clearTokenCookies expires both token cookies on logout.
func clearTokenCookies(c echo.Context) {
	c.SetCookie(tokenCookie(accessCookie, "", -1))
	c.SetCookie(tokenCookie(refreshCookie, "", -1))
}

func tokenCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
