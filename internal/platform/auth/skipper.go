package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths are route patterns reachable without a bearer token.
var publicPaths = map[string]bool{
	"/health":                      true,
	"/health/db":                   true,
	"/metrics":                     true,
	"/api/auth/register":           true,
	"/api/auth/login":              true,
	"/api/donations/inventory":     true,
	"/api/doctors/specializations": true,
	"/api/doctors/by-specialization/:specialization": true,
}

// AuthSkipper reports whether the matched route is public.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}

// IsPublicPath reports whether the given route pattern is public.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
