package controller

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dilshat/mail-dispatch/log"
	"github.com/labstack/echo/v4"
)

// ServePdf godoc
// @Summary Stream a pdf
// @Description Streams a pdf document from the configured base directory
// @Produce application/pdf
// @Param path path string true "Relative pdf path"
// @Success 200 "pdf stream"
// @Failure 400 "error description"
// @Failure 404 "error description"
// @Router /api/pdfs/{path} [get]
func GetServePdfFunc(baseDir string, limiter *RateLimiter) echo.HandlerFunc {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		log.Fatal(err)
	}

	return func(c echo.Context) error {
		if !limiter.Allow(c.RealIP()) {
			return c.JSON(http.StatusTooManyRequests, message{Message: "Too many requests"})
		}

		rel := c.Param("*")
		if rel == "" {
			return c.JSON(http.StatusBadRequest, message{Message: "Missing pdf path"})
		}
		if decoded, err := url.PathUnescape(rel); err == nil {
			rel = decoded
		}
		if !strings.HasSuffix(strings.ToLower(rel), ".pdf") {
			return c.JSON(http.StatusBadRequest, message{Message: "Only pdf files are served"})
		}

		//normalize and keep the path inside the base directory
		full := filepath.Join(base, filepath.FromSlash(rel))
		if full != base && !strings.HasPrefix(full, base+string(os.PathSeparator)) {
			return c.JSON(http.StatusBadRequest, message{Message: "Invalid pdf path"})
		}

		f, err := os.Open(full)
		if err != nil {
			if os.IsNotExist(err) {
				return c.JSON(http.StatusNotFound, message{Message: "Pdf not found"})
			}
			log.Error.Println(err)
			return c.JSON(http.StatusInternalServerError, message{Message: "System malfunction. Please, try later"})
		}
		defer f.Close()

		c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+url.PathEscape(filepath.Base(full))+`"`)
		return c.Stream(http.StatusOK, "application/pdf", f)
	}
}
