package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace_backend/internal/shared/apperr"
)

// Error writes err as {"message": ...} with the status of its kind.
func Error(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), MessageResponse{Message: err.Error()})
}

// FormFile returns the content of a multipart file field.
// A missing field yields nil content and no error.
func FormFile(c *gin.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
