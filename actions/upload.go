package actions

import (
	"fmt"
	"io"

	"github.com/gobuffalo/buffalo"

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
	"github.com/pawtrail/pawtrail-api/models"
)

// fileFieldName is the multipart field name for the file upload
const fileFieldName = "file"

// swagger:operation POST /upload Upload UploadFile
//
// UploadFile
//
// upload an image for later use as claim evidence or an alert photo. The
// file is stored unlinked; files not linked to anything within four weeks
// are deleted.
//
// ---
// parameters:
//   - name: file
//     in: formData
//     type: file
//     required: true
//     description: file to upload
// responses:
//   '200':
//     description: the stored File
//     schema:
//       "$ref": "#/definitions/File"
func uploadHandler(c buffalo.Context) error {
	f, err := c.File(fileFieldName)
	if err != nil {
		err := fmt.Errorf("error getting uploaded file from context ... %w", err)
		return reportError(c, api.NewAppError(err, api.ErrorReceivingFile, api.CategoryInternal))
	}

	if f.Size > int64(domain.MaxFileSize) {
		err := fmt.Errorf("file upload size (%v) greater than max (%v)", f.Size, domain.MaxFileSize)
		return reportError(c, api.NewAppError(err, api.ErrorStoreFileTooLarge, api.CategoryUser))
	}

	content, err := io.ReadAll(f)
	if err != nil {
		err := fmt.Errorf("error reading uploaded file ... %w", err)
		return reportError(c, api.NewAppError(err, api.ErrorUnableToReadFile, api.CategoryInternal))
	}

	file := models.File{
		Name:        f.Filename,
		Content:     content,
		CreatedByID: models.CurrentUser(c).ID,
	}
	if err := file.Store(models.Tx(c)); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, file.ConvertToAPI())
}
