package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/calibre-xmnote/internal/logger"
	"github.com/mrlokans/calibre-xmnote/internal/services"
)

type BooksController struct {
	library LibraryActions
	log     logger.Logger
}

func NewBooksController(library LibraryActions, log logger.Logger) *BooksController {
	return &BooksController{
		library: library,
		log:     log,
	}
}

func (controller *BooksController) GetAllBooks(c *gin.Context) {
	books, err := controller.library.Books()
	if err != nil {
		respondActionError(c, controller.log, err, "list books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) MarkSingleFormat(c *gin.Context) {
	ids, err := controller.library.MarkSingleFormat()
	if err != nil {
		respondActionError(c, controller.log, err, "mark single-format books")
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	c.JSON(http.StatusOK, gin.H{"book_ids": ids, "count": len(ids)})
}

func (controller *BooksController) GetMarked(c *gin.Context) {
	ids, err := controller.library.MarkedBooks()
	if err != nil {
		respondActionError(c, controller.log, err, "list marked books")
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	c.JSON(http.StatusOK, gin.H{"book_ids": ids, "count": len(ids)})
}

func (controller *BooksController) OpenLatest(c *gin.Context) {
	book, path, err := controller.library.OpenLatest()
	switch {
	case errors.Is(err, services.ErrEmptyLibrary):
		respondNotFound(c, "book")
		return
	case errors.Is(err, services.ErrNoFormats):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Details: book})
		return
	case err != nil:
		respondActionError(c, controller.log, err, "open latest book")
		return
	}
	respondSuccess(c, "opened", gin.H{"book": book, "path": path})
}
