package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/calibre-xmnote/internal/entities"
	"github.com/mrlokans/calibre-xmnote/internal/logger"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type ExportsController struct {
	history ExportHistoryReader
	log     logger.Logger
}

func NewExportsController(history ExportHistoryReader, log logger.Logger) *ExportsController {
	return &ExportsController{history: history, log: log}
}

// List handles GET /api/exports?limit=N[&book_id=ID], newest first.
func (e *ExportsController) List(c *gin.Context) {
	limit := parseLimit(c, defaultHistoryLimit, maxHistoryLimit)

	var (
		records []entities.ExportRecord
		err     error
	)
	if raw := c.Query("book_id"); raw != "" {
		bookID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil || bookID <= 0 {
			respondBadRequest(c, "invalid book_id")
			return
		}
		records, err = e.history.ExportsForBook(bookID, limit)
	} else {
		records, err = e.history.RecentExports(limit)
	}
	if err != nil {
		respondInternalError(c, e.log, err, "list exports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exports": records, "count": len(records)})
}
