package resumes

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
)

const maxBodySize = 1 << 20 // 1MB

const msgDeleted = "Resume deleted successfully"

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group. Extra handlers
// run before the write routes only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, writeMiddleware ...gin.HandlerFunc) {
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.GET("/resumes/:id/render", h.render)
	rg.GET("/resumes/:id/pdf", h.pdf)

	writes := rg.Group("", writeMiddleware...)
	writes.POST("/resumes", h.create)
	writes.PUT("/resumes/:id", h.update)
	writes.DELETE("/resumes/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	resumes, err := h.Svc.List(c.Request.Context(), c.Query("userId"))
	if err != nil {
		writeError(c, err, "Failed to fetch resumes")
		return
	}
	respond.OK(c, resumes)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resume, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to fetch resume")
		return
	}
	respond.OK(c, resume)
}

func (h *Handler) create(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	resume, err := h.Svc.Create(c.Request.Context(), body)
	if err != nil {
		writeError(c, err, "Failed to create resume")
		return
	}
	telemetry.Info("resume.created", map[string]any{
		"request_id": c.GetString("requestId"),
		"resume_id":  resume.ID,
		"template":   resume.Template,
	})
	respond.JSON(c, http.StatusCreated, resume)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}
	resume, err := h.Svc.Update(c.Request.Context(), id, body)
	if err != nil {
		writeError(c, err, "Failed to update resume")
		return
	}
	respond.OK(c, resume)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "Failed to delete resume")
		return
	}
	respond.Message(c, http.StatusOK, msgDeleted)
}

func (h *Handler) render(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	html, _, err := h.Svc.Render(c.Request.Context(), id, c.Query("template"))
	if err != nil {
		writeError(c, err, "Failed to render resume")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (h *Handler) pdf(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	name, pdf, err := h.Svc.ExportPDF(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to export PDF")
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := ParseID(c.Param("id"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidID, "Invalid resume ID", nil)
		return 0, false
	}
	return id, true
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodeValidation, "Request body too large", nil)
			return nil, false
		}
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "Unable to read request body", nil)
		return nil, false
	}
	return body, true
}

// writeError maps service errors to the error envelope. Unexpected errors are
// logged and replaced with fallback.
func writeError(c *gin.Context, err error, fallback string) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, ve.Message, ve.Fields.Errors)
	case errors.Is(err, ErrInvalidID):
		respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidID, "Invalid resume ID", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "Resume not found", nil)
	default:
		telemetry.Error("resume.request_failed", map[string]any{
			"request_id": c.GetString("requestId"),
			"path":       c.Request.URL.Path,
			"error":      err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, fallback, nil)
	}
}
