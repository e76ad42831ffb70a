package controller

import (
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/dilshat/mail-dispatch/log"
	"github.com/dilshat/mail-dispatch/service"
	"github.com/dilshat/mail-dispatch/service/dto"
	"github.com/labstack/echo/v4"
)

type message struct {
	Message string `json:"message"`
}

//writeError maps service errors onto the http surface: invalid payloads
//become 400, storm's not-found becomes 404, the rest is a 500
func writeError(c echo.Context, err error) error {
	switch err.(type) {
	case *service.InvalidPayloadErr:
		return c.JSON(http.StatusBadRequest, message{Message: err.Error()})
	default:
		if err.Error() == "not found" {
			return c.JSON(http.StatusNotFound, message{Message: "Not found"})
		}
		log.Error.Println(err)
		return c.JSON(http.StatusInternalServerError, message{Message: "System malfunction. Please, try later"})
	}
}

// GetData godoc
// @Summary Seed data
// @Description Returns the entire seed document
// @Produce json
// @Success 200 {object} seed.Data
// @Failure 500 "error description"
// @Router /api/data [get]
func GetDataFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := srv.SeedData()
		if err != nil {
			log.Error.Println(err)
			return c.JSON(http.StatusInternalServerError, message{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, data)
	}
}

// SyncGroups godoc
// @Summary Sync mail groups
// @Description Reconciles the wizard grid with the selected organizations
// @Accept json
// @Produce json
// @Param selection body dto.Selection true "Selection"
// @Success 200 {object} dto.GroupList
// @Failure 400 "error description"
// @Router /api/wizard/selection [put]
func GetSyncGroupsFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		sel := new(dto.Selection)
		if err := c.Bind(sel); err != nil {
			return err
		}

		grid, err := srv.SyncGroups(*sel)
		if err != nil {
			return writeError(c, err)
		}

		return c.JSON(http.StatusOK, grid)
	}
}

// GetGroups godoc
// @Summary Wizard grid
// @Description Returns the current non-dispatched mail groups
// @Produce json
// @Success 200 {object} dto.GroupList
// @Router /api/wizard/groups [get]
func GetGroupsFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		grid, err := srv.Groups()
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, grid)
	}
}

// AttachDocuments godoc
// @Summary Attach documents
// @Description Attaches the pdf files of a multipart batch to a mail group
// @Accept mpfd
// @Produce json
// @Param id path string true "Mail group id"
// @Success 200 {object} model.MailGroup
// @Failure 400 "error description"
// @Router /api/wizard/groups/{id}/documents [post]
func GetAttachFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		form, err := c.MultipartForm()
		if err != nil {
			return c.JSON(http.StatusBadRequest, message{Message: "Multipart form expected"})
		}

		files := form.File["files"]
		if len(files) == 0 {
			return c.JSON(http.StatusBadRequest, message{Message: "No files in upload batch"})
		}

		uploads := make([]dto.Upload, 0, len(files))
		for _, header := range files {
			f, err := header.Open()
			if err != nil {
				return writeError(c, err)
			}
			data, err := ioutil.ReadAll(f)
			f.Close()
			if err != nil {
				return writeError(c, err)
			}
			uploads = append(uploads, dto.Upload{
				Name:         header.Filename,
				ContentType:  header.Header.Get("Content-Type"),
				LastModified: lastModified(c),
				Data:         data,
			})
		}

		group, err := srv.Attach(c.Param("id"), uploads)
		if err != nil {
			return writeError(c, err)
		}

		return c.JSON(http.StatusOK, group)
	}
}

//lastModified reads the optional lastModified form field sent with the batch
func lastModified(c echo.Context) int64 {
	value := c.FormValue("lastModified")
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// DetachDocument godoc
// @Summary Detach document
// @Description Removes a document from a mail group and evicts its cache entry
// @Produce json
// @Param id path string true "Mail group id"
// @Param docId path string true "Document id"
// @Success 200 {object} model.MailGroup
// @Failure 404 "error description"
// @Router /api/wizard/groups/{id}/documents/{docId} [delete]
func GetDetachFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		group, err := srv.Detach(c.Param("id"), c.Param("docId"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, group)
	}
}

// StartValidation godoc
// @Summary Start validation
// @Description Starts an address validation run over the mail tasks
// @Produce json
// @Success 202 "accepted"
// @Failure 400 "error description"
// @Router /api/wizard/validation [post]
func GetStartValidationFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := srv.StartValidation(); err != nil {
			return writeError(c, err)
		}
		return c.NoContent(http.StatusAccepted)
	}
}

// ValidationStatus godoc
// @Summary Validation status
// @Description Returns run progress and the open address exceptions
// @Produce json
// @Success 200 {object} dto.ValidationStatus
// @Router /api/wizard/validation [get]
func GetValidationStatusFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		status, err := srv.ValidationStatus()
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, status)
	}
}

// SkipException godoc
// @Summary Skip exception
// @Description Sends a flagged mail group to manual review
// @Produce json
// @Param id path string true "Mail group id"
// @Success 200 {object} model.MailGroup
// @Failure 400 "error description"
// @Router /api/wizard/validation/{id}/skip [post]
func GetSkipExceptionFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		group, err := srv.SkipException(c.Param("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, group)
	}
}

// FixException godoc
// @Summary Fix exception
// @Description Applies a corrected address to a flagged mail group
// @Accept json
// @Produce json
// @Param id path string true "Mail group id"
// @Param fix body dto.AddressFix true "Address fix"
// @Success 200 {object} model.MailGroup
// @Failure 400 "error description"
// @Router /api/wizard/validation/{id}/fix [post]
func GetFixExceptionFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		fix := new(dto.AddressFix)
		if err := c.Bind(fix); err != nil {
			return err
		}

		group, err := srv.FixException(c.Param("id"), *fix)
		if err != nil {
			return writeError(c, err)
		}

		return c.JSON(http.StatusOK, group)
	}
}

// Dispatch godoc
// @Summary Dispatch job
// @Description Converts every mail task into a job and clears the wizard draft
// @Accept json
// @Produce json
// @Param job body dto.JobRequest true "Job details"
// @Success 200 {object} model.Job
// @Failure 400 "error description"
// @Router /api/jobs [post]
func GetDispatchFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(dto.JobRequest)
		if err := c.Bind(req); err != nil {
			return err
		}

		job, err := srv.Dispatch(*req)
		if err != nil {
			return writeError(c, err)
		}

		return c.JSON(http.StatusOK, job)
	}
}

// Jobs godoc
// @Summary Job history
// @Description Returns the merged job history, newest first
// @Produce json
// @Success 200 {array} model.Job
// @Router /api/jobs [get]
func GetJobsFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		jobs, err := srv.Jobs()
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, jobs)
	}
}

// Timeline godoc
// @Summary Tracking timeline
// @Description Returns the tracking timeline of a job
// @Produce json
// @Param id path string true "Job id"
// @Success 200 {array} model.TrackingEvent
// @Failure 404 "error description"
// @Router /api/jobs/{id}/tracking [get]
func GetTimelineFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		events, err := srv.Timeline(c.Param("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, events)
	}
}

// Report godoc
// @Summary Report summary
// @Description Aggregates the job history into a summary
// @Produce json
// @Success 200 {object} dto.ReportSummary
// @Router /api/reports/summary [get]
func GetReportFunc(srv service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		summary, err := srv.Report()
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, summary)
	}
}
