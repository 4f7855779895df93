package middleware

import (
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// HTTPSRedirect sends plain HTTP requests to the same host on tlsPort with 307,
// keeping method and body. Requests already on TLS pass through.
func HTTPSRedirect(tlsPort string, skipper echomw.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = echomw.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) || c.IsTLS() {
				return next(c)
			}

			req := c.Request()
			host := req.Host
			if h, _, err := net.SplitHostPort(host); err == nil {
				host = h
			}
			if tlsPort != "" && tlsPort != "443" {
				host = net.JoinHostPort(host, tlsPort)
			}

			return c.Redirect(http.StatusTemporaryRedirect, "https://"+host+req.RequestURI)
		}
	}
}
