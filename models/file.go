package models

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"
	_ "golang.org/x/image/webp" // enable decoding of WEBP images

	"github.com/pawtrail/pawtrail-api/api"
	"github.com/pawtrail/pawtrail-api/domain"
	"github.com/pawtrail/pawtrail-api/storage"
)

const minimumFileLifespan = time.Minute * 5

type Files []File

// File is an uploaded image stored in S3. Files are uploaded unlinked, then
// linked when attached to a claim or alert. Unlinked files get swept
// periodically.
type File struct {
	ID            uuid.UUID `db:"id"`
	URL           string    `db:"url" validate:"required"`
	URLExpiration time.Time `db:"url_expiration"`
	Name          string    `db:"name" validate:"required"`
	Size          int       `db:"size" validate:"required,min=0"`
	ContentType   string    `db:"content_type" validate:"required"`
	Linked        bool      `db:"linked"`
	CreatedByID   uuid.UUID `db:"created_by_id" validate:"required"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`

	Content []byte `db:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (f *File) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(f), nil
}

// Create stores the File data as a new record in the database.
func (f *File) Create(tx *pop.Connection) error {
	return create(tx, f)
}

// Update writes the File data to an existing database record.
func (f *File) Update(tx *pop.Connection) error {
	return update(tx, f)
}

func (f *File) GetID() uuid.UUID {
	return f.ID
}

func (f *File) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return tx.Find(f, id)
}

// Store takes a byte slice and stores it into S3 and saves the metadata in the database file table.
func (f *File) Store(tx *pop.Connection) error {
	if len(f.Content) > domain.MaxFileSize {
		err := fmt.Errorf("file too large (%d bytes), max is %d bytes", len(f.Content), domain.MaxFileSize)
		return api.NewAppError(err, api.ErrorStoreFileTooLarge, api.CategoryUser)
	}

	contentType, err := validateContentType(f.Content)
	if err != nil {
		return api.NewAppError(err, api.ErrorStoreFileBadContentType, api.CategoryUser)
	}
	f.ContentType = contentType

	if f.Name == "" {
		return api.NewAppError(errors.New("filename is missing"), api.ErrorFilenameRequired, api.CategoryUser)
	}

	f.removeMetadata()
	f.changeFileExtension()

	f.ID = domain.GetUUID()

	url, err := storage.StoreFile(f.Path(), f.ContentType, f.Content)
	if err != nil {
		err = fmt.Errorf("error storing file %s: %w", f.ID, err)
		return api.NewAppError(err, api.ErrorUnableToStoreFile, api.CategoryInternal)
	}

	f.URL = url.Url
	f.URLExpiration = url.Expiration
	f.Size = len(f.Content)
	if err = f.Create(tx); err != nil {
		err = fmt.Errorf("error creating file %s: %w", f.ID, err)
		return api.NewAppError(err, api.ErrorUnableToStoreFile, api.CategoryInternal)
	}

	return nil
}

// removeMetadata removes, if possible, all EXIF metadata by re-encoding the image. If the encoding type changes,
// `contentType` will be modified accordingly.
func (f *File) removeMetadata() {
	img, _, err := image.Decode(bytes.NewReader(f.Content))
	if err != nil {
		return
	}
	buf := new(bytes.Buffer)
	switch f.ContentType {
	case "image/jpg", "image/jpeg":
		if err := jpeg.Encode(buf, img, nil); err == nil {
			f.Content = buf.Bytes()
		}
	case "image/gif":
		if err := gif.Encode(buf, img, nil); err == nil {
			f.Content = buf.Bytes()
		}
	case "image/png":
		if err := png.Encode(buf, img); err == nil {
			f.Content = buf.Bytes()
		}
	case "image/webp":
		if err := png.Encode(buf, img); err == nil {
			f.Content = buf.Bytes()
			f.ContentType = "image/png"
		}
	}
}

// changeFileExtension attempts to make the file extension match the given content type
func (f *File) changeFileExtension() {
	ext, err := mime.ExtensionsByType(f.ContentType)
	if err != nil || len(ext) < 1 {
		return
	}
	f.Name = strings.TrimSuffix(f.Name, filepath.Ext(f.Name)) + ext[0]
}

// Path is the object key in the S3 bucket
func (f *File) Path() string {
	return f.ID.String()
}

// RefreshURL ensures the file URL is good for at least a few minutes
func (f *File) RefreshURL(tx *pop.Connection) error {
	if f.URLExpiration.After(time.Now().Add(minimumFileLifespan)) {
		return nil
	}

	newURL, err := storage.GetFileURL(f.Path())
	if err != nil {
		return err
	}
	f.URL = newURL.Url
	f.URLExpiration = newURL.Expiration
	return f.Update(tx)
}

func validateContentType(content []byte) (string, error) {
	detectedType := http.DetectContentType(content)
	if domain.IsStringInSlice(detectedType, domain.AllowedFileUploadTypes) {
		return detectedType, nil
	}
	return "", fmt.Errorf("invalid file type %s", detectedType)
}

// SetLinked marks the file as linked. If already linked, return an error since it may be attempting to link a file to
// multiple records.
// The File struct need not be hydrated; only the ID is needed.
func (f *File) SetLinked(tx *pop.Connection) error {
	if err := tx.Reload(f); err != nil {
		panic(fmt.Sprintf("failed to load file for setting linked flag, %s", err))
	}
	if f.Linked {
		err := fmt.Errorf("cannot link file, it is already linked")
		return api.NewAppError(err, api.ErrorFileAlreadyLinked, api.CategoryUser)
	}
	f.Linked = true
	if err := tx.UpdateColumns(f, "linked", "updated_at"); err != nil {
		return appErrorFromDB(err, api.ErrorUpdateFailure)
	}
	return nil
}

// ClearLinked marks the file as unlinked. The struct need not be hydrated; only the ID is needed.
func (f *File) ClearLinked(tx *pop.Connection) error {
	f.Linked = false
	return tx.UpdateColumns(f, "linked", "updated_at")
}

// DeleteUnlinked removes all files that are no longer linked to any database records
func (f *Files) DeleteUnlinked(tx *pop.Connection) error {
	var files Files
	if err := tx.Select("id").
		Where("linked = FALSE AND updated_at < ?", time.Now().Add(-4*domain.DurationWeek)).
		All(&files); err != nil {
		return err
	}
	domain.Logger.Printf("unlinked files: %d", len(files))
	if len(files) > domain.Env.MaxFileDelete {
		return fmt.Errorf("attempted to delete too many files, MaxFileDelete=%d", domain.Env.MaxFileDelete)
	}
	if len(files) == 0 {
		return nil
	}

	nRemovedFromDB := 0
	nRemovedFromS3 := 0
	for _, file := range files {
		if err := storage.RemoveFile(file.ID.String()); err != nil {
			domain.ErrLogger.Printf("error removing from S3, id='%s', %s", file.ID.String(), err)
			continue
		}
		nRemovedFromS3++

		f := file
		if err := tx.Destroy(&f); err != nil {
			domain.ErrLogger.Printf("file %s destroy error, %s", file.ID, err)
			continue
		}
		nRemovedFromDB++
	}

	if nRemovedFromDB < len(files) || nRemovedFromS3 < len(files) {
		domain.ErrLogger.Printf("not all unlinked files were removed")
	}
	domain.Logger.Printf("removed %d from S3, %d from file table", nRemovedFromS3, nRemovedFromDB)
	return nil
}

func (f *File) ConvertToAPI() api.File {
	return api.File{
		ID:            f.ID,
		Name:          f.Name,
		URL:           f.URL,
		URLExpiration: f.URLExpiration,
		Size:          f.Size,
		ContentType:   f.ContentType,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}
