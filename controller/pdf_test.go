package controller

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func pdfDir(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir(os.TempDir(), "pdfs")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "reports"), 0755))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "reports", "notice.pdf"), []byte("%PDF-1.4 fake"), 0644))

	return dir, func() { os.RemoveAll(dir) }
}

func servePdf(t *testing.T, dir, path string) *httptest.ResponseRecorder {
	f := GetServePdfFunc(dir, NewRateLimiter(rate.Limit(100), 100))
	req := httptest.NewRequest(http.MethodGet, "/api/pdfs/"+path, nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("*")
	c.SetParamValues(path)

	require.NoError(t, f(c))
	return rec
}

func TestGetServePdfFunc(t *testing.T) {
	dir, cleanup := pdfDir(t)
	defer cleanup()

	rec := servePdf(t, dir, "reports/notice.pdf")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	require.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `inline; filename="notice.pdf"`)
	require.Equal(t, "%PDF-1.4 fake", rec.Body.String())
}

func TestGetServePdfFuncRejectsNonPdf(t *testing.T) {
	dir, cleanup := pdfDir(t)
	defer cleanup()

	rec := servePdf(t, dir, "reports/notice.txt")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetServePdfFuncRejectsTraversal(t *testing.T) {
	dir, cleanup := pdfDir(t)
	defer cleanup()

	rec := servePdf(t, dir, "../outside/secret.pdf")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetServePdfFuncMissingFile(t *testing.T) {
	dir, cleanup := pdfDir(t)
	defer cleanup()

	rec := servePdf(t, dir, "reports/absent.pdf")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetServePdfFuncMissingPath(t *testing.T) {
	dir, cleanup := pdfDir(t)
	defer cleanup()

	rec := servePdf(t, dir, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetServePdfFuncRateLimited(t *testing.T) {
	dir, cleanup := pdfDir(t)
	defer cleanup()

	f := GetServePdfFunc(dir, NewRateLimiter(rate.Limit(1), 1))
	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/api/pdfs/reports/notice.pdf", nil)
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(req, rec)
		c.SetParamNames("*")
		c.SetParamValues("reports/notice.pdf")

		require.NoError(t, f(c))
		require.Equal(t, want, rec.Code, "request %d", i)
	}
}
