package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/calibre-xmnote/internal/logger"
	"github.com/mrlokans/calibre-xmnote/internal/services"
)

// DialogController serves the export dialog: its summary label, the export
// button and the help button.
type DialogController struct {
	exporter BookExporter
	library  LibraryActions
	log      logger.Logger
}

func NewDialogController(exporter BookExporter, library LibraryActions, log logger.Logger) *DialogController {
	return &DialogController{
		exporter: exporter,
		library:  library,
		log:      log,
	}
}

type DialogResponse struct {
	Label   string  `json:"label"`
	BookIDs []int64 `json:"book_ids"`
}

type ExportRequest struct {
	BookIDs []int64 `json:"book_ids"`
}

// ExportFailure is sent as error details when an export stops part way.
type ExportFailure struct {
	Message services.Message      `json:"message"`
	Result  services.ExportResult `json:"result"`
}

type HelpResponse struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Summary handles GET /api/dialog?book_id=1&book_id=2.
func (d *DialogController) Summary(c *gin.Context) {
	ids, ok := parseBookIDs(c, "book_id")
	if !ok {
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	label, err := d.library.Summary(ids)
	if err != nil {
		respondActionError(c, d.log, err, "dialog summary")
		return
	}

	c.JSON(http.StatusOK, DialogResponse{Label: label, BookIDs: ids})
}

// Export handles POST /api/export with body {"book_ids": [...]}.
func (d *DialogController) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := d.exporter.Export(c.Request.Context(), req.BookIDs)
	if err != nil {
		if status, _ := classifyError(err); status == http.StatusInternalServerError {
			respondInternalError(c, d.log, err, "export")
			return
		}
		respondDialogError(c, err, ExportFailure{Message: services.ErrorMessage(err), Result: result})
		return
	}

	respondSuccess(c, "export completed", result)
}

// Help handles GET /api/help.
func (d *DialogController) Help(c *gin.Context) {
	c.JSON(http.StatusOK, HelpResponse{Title: services.HelpTitle, Text: services.HelpText})
}
