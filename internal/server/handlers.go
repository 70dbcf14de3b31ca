package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/parser"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/workbook"
)

const (
	xlsxMIME         = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	downloadFilename = "updated_results.xlsx"
)

type handler struct {
	s *Server
}

func (h *handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// openMaster loads the workbook and reads its master sheet.
func (h *handler) openMaster(c *gin.Context) (*workbook.Workbook, *parser.Table, bool) {
	data, err := h.s.load(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return nil, nil, false
	}
	wb, err := workbook.Open(data, workbook.WithMasterSheet(h.s.tracker.Options().MasterSheet))
	if err != nil {
		h.fail(c, err)
		return nil, nil, false
	}
	table, err := wb.Master()
	if err != nil {
		wb.Close()
		h.fail(c, err)
		return nil, nil, false
	}
	return wb, table, true
}

// ListTasks lists tasks with their availability, optionally for one tester.
func (h *handler) ListTasks(c *gin.Context) {
	wb, table, ok := h.openMaster(c)
	if !ok {
		return
	}
	defer wb.Close()

	c.JSON(http.StatusOK, gin.H{
		"tasks": testdoc.Availability(table, c.Query("tester")),
	})
}

func (h *handler) ListTesters(c *gin.Context) {
	wb, table, ok := h.openMaster(c)
	if !ok {
		return
	}
	defer wb.Close()

	c.JSON(http.StatusOK, gin.H{"testers": testdoc.Testers(table)})
}

// GetSummary recomputes the summary from the current master sheet.
func (h *handler) GetSummary(c *gin.Context) {
	wb, table, ok := h.openMaster(c)
	if !ok {
		return
	}
	defer wb.Close()

	c.JSON(http.StatusOK, gin.H{
		"summary": workbook.Summarize(table, workbook.ReadLastUpdate(wb.File())),
	})
}

// DownloadWorkbook returns the workbook produced by the latest submission,
// falling back to the current copy.
func (h *handler) DownloadWorkbook(c *gin.Context) {
	data := h.s.lastWorkbook()
	if data == nil {
		var err error
		if data, err = h.s.load(c.Request.Context()); err != nil {
			h.fail(c, err)
			return
		}
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadFilename))
	c.Data(http.StatusOK, xlsxMIME, data)
}

// Submit accepts a multipart form with task_id, tester, verdict, comment
// and any number of screenshots files.
func (h *handler) Submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.s.maxUpload)

	verdict, err := testdoc.ParseVerdict(c.PostForm("verdict"))
	if err != nil {
		h.fail(c, err)
		return
	}

	sub := testdoc.Submission{
		TaskID:  c.PostForm("task_id"),
		Tester:  c.PostForm("tester"),
		Verdict: verdict,
		Comment: c.PostForm("comment"),
	}

	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["screenshots"] {
			data, err := readUpload(fh)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "bad_upload"})
				return
			}
			sub.Screenshots = append(sub.Screenshots, data)
		}
	}

	res, err := h.s.submit(c.Request.Context(), sub)
	if res == nil {
		h.fail(c, err)
		return
	}

	body := gin.H{"result": res}
	if err != nil {
		// The workbook was updated; only the remote copy is stale.
		h.s.logger.Warn("submission not synced", zap.Error(err))
		body["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, body)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// fail maps domain errors onto HTTP statuses.
func (h *handler) fail(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, testdoc.ErrTaskNotFound):
		status, code = http.StatusNotFound, "task_not_found"
	case errors.Is(err, testdoc.ErrWorkbookNotFound):
		status, code = http.StatusNotFound, "workbook_not_found"
	case errors.Is(err, testdoc.ErrInvalidVerdict),
		errors.Is(err, testdoc.ErrEmptyTaskID),
		errors.Is(err, testdoc.ErrEmptyTester),
		errors.Is(err, workbook.ErrUnreadableImage),
		errors.Is(err, workbook.ErrEmptyImage):
		status, code = http.StatusBadRequest, "invalid_submission"
	case errors.Is(err, workbook.ErrNoMasterSheet):
		status, code = http.StatusUnprocessableEntity, "no_master_sheet"
	case errors.Is(err, testdoc.ErrSyncFailed):
		status, code = http.StatusBadGateway, "sync_failed"
	}
	if status >= http.StatusInternalServerError {
		h.s.logger.Error("request failed", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
