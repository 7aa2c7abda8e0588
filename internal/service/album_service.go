package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/google/uuid"

	"artschool-backend/internal/model"
	"artschool-backend/internal/storage"
	"artschool-backend/internal/util"
	"artschool-backend/pkg/apierror"
)

type AlbumStore interface {
	FindByID(ctx context.Context, id int64) (model.Album, error)
	List(ctx context.Context) ([]model.Album, error)
	Create(ctx context.Context, a model.Album) (int64, error)
	Delete(ctx context.Context, id int64) error
	FindPhoto(ctx context.Context, albumID int64, photoID int64) (model.Photo, error)
	ListPhotos(ctx context.Context, albumID int64) ([]model.Photo, error)
	CreatePhoto(ctx context.Context, p model.Photo) (int64, error)
	DeletePhoto(ctx context.Context, albumID int64, photoID int64) error
}

// AlbumService manages photo albums: metadata in the database, the image
// bytes in root-jailed storage, thumbnails cached on disk.
type AlbumService struct {
	albums        AlbumStore
	store         *storage.Storage
	thumbnailRoot string
}

func NewAlbumService(albums AlbumStore, store *storage.Storage, thumbnailRoot string) *AlbumService {
	if strings.TrimSpace(thumbnailRoot) == "" {
		thumbnailRoot = "./data/.thumbnails"
	}

	return &AlbumService{albums: albums, store: store, thumbnailRoot: thumbnailRoot}
}

func (s *AlbumService) ListAlbums(ctx context.Context) ([]model.Album, error) {
	return s.albums.List(ctx)
}

func (s *AlbumService) CreateAlbum(ctx context.Context, req model.CreateAlbumRequest) (model.Album, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.Album{}, apierror.BadRequest("title is required", "")
	}

	id, err := s.albums.Create(ctx, model.Album{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		return model.Album{}, err
	}

	return s.albums.FindByID(ctx, id)
}

// DeleteAlbum removes the album row (photo rows cascade) and then the photo
// files. File removal is best effort; a leftover file is logged, not fatal.
func (s *AlbumService) DeleteAlbum(ctx context.Context, id int64) error {
	photos, err := s.albums.ListPhotos(ctx, id)
	if err != nil {
		return err
	}

	if err := s.albums.Delete(ctx, id); err != nil {
		return err
	}

	for _, photo := range photos {
		s.removePhotoFiles(photo)
	}

	return nil
}

func (s *AlbumService) ListPhotos(ctx context.Context, albumID int64) ([]model.Photo, error) {
	if _, err := s.albums.FindByID(ctx, albumID); err != nil {
		return nil, err
	}

	return s.albums.ListPhotos(ctx, albumID)
}

// UploadPhoto stores one multipart file part. The MIME type is sniffed from
// the first bytes of the content, not trusted from the client, and only
// image types are accepted.
func (s *AlbumService) UploadPhoto(ctx context.Context, albumID int64, filename string, reader io.Reader) (model.Photo, error) {
	if _, err := s.albums.FindByID(ctx, albumID); err != nil {
		return model.Photo{}, err
	}

	safeName, err := util.SanitizeFilename(filename)
	if err != nil {
		return model.Photo{}, err
	}

	sniffBuffer := make([]byte, 512)
	n, readErr := io.ReadFull(reader, sniffBuffer)
	if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
		return model.Photo{}, readErr
	}

	detectedMIME := http.DetectContentType(sniffBuffer[:n])
	if !util.IsImageMIME(detectedMIME) {
		return model.Photo{}, apierror.New("UNSUPPORTED_TYPE", "only image uploads are allowed", detectedMIME, http.StatusUnsupportedMediaType)
	}

	storedPath := fmt.Sprintf("albums/%d/%s%s", albumID, uuid.NewString(), strings.ToLower(filepath.Ext(safeName)))
	writer, err := s.store.OpenForWrite(storedPath)
	if err != nil {
		return model.Photo{}, err
	}
	defer writer.Close()

	contentReader := io.MultiReader(bytes.NewReader(sniffBuffer[:n]), reader)
	written, err := io.CopyBuffer(writer, contentReader, make([]byte, 32*1024))
	if err != nil {
		return model.Photo{}, err
	}

	photo := model.Photo{
		AlbumID:      albumID,
		StoredPath:   storedPath,
		OriginalName: safeName,
		Size:         written,
		MimeType:     detectedMIME,
	}

	id, err := s.albums.CreatePhoto(ctx, photo)
	if err != nil {
		s.removePhotoFiles(photo)
		return model.Photo{}, err
	}

	return s.albums.FindPhoto(ctx, albumID, id)
}

func (s *AlbumService) DeletePhoto(ctx context.Context, albumID int64, photoID int64) error {
	photo, err := s.albums.FindPhoto(ctx, albumID, photoID)
	if err != nil {
		return err
	}

	if err := s.albums.DeletePhoto(ctx, albumID, photoID); err != nil {
		return err
	}

	s.removePhotoFiles(photo)
	return nil
}

// GetPhotoFile opens the original image for serving.
func (s *AlbumService) GetPhotoFile(ctx context.Context, albumID int64, photoID int64) (*os.File, os.FileInfo, model.Photo, error) {
	photo, err := s.albums.FindPhoto(ctx, albumID, photoID)
	if err != nil {
		return nil, nil, model.Photo{}, err
	}

	file, err := s.store.OpenForRead(photo.StoredPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, model.Photo{}, apierror.NotFound("photo file missing from storage", photo.StoredPath)
		}
		return nil, nil, model.Photo{}, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, model.Photo{}, err
	}

	return file, info, photo, nil
}

// GetThumbnail returns a cached JPEG thumbnail, regenerating it when the
// source image is newer than the cached copy.
func (s *AlbumService) GetThumbnail(ctx context.Context, albumID int64, photoID int64, size int) (*os.File, os.FileInfo, error) {
	if size <= 0 {
		size = 256
	}

	photo, err := s.albums.FindPhoto(ctx, albumID, photoID)
	if err != nil {
		return nil, nil, err
	}

	if !util.IsDecodableImageMIME(photo.MimeType) {
		return nil, nil, apierror.New("UNSUPPORTED_TYPE", "no thumbnail for this format", photo.MimeType, http.StatusUnsupportedMediaType)
	}

	sourceInfo, err := s.store.Stat(photo.StoredPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, apierror.NotFound("photo file missing from storage", photo.StoredPath)
		}
		return nil, nil, err
	}

	if err := os.MkdirAll(s.thumbnailRoot, 0o755); err != nil {
		return nil, nil, err
	}

	thumbPath := s.thumbnailPath(photo.StoredPath, size)
	if thumbInfo, statErr := os.Stat(thumbPath); statErr == nil {
		if !thumbInfo.ModTime().Before(sourceInfo.ModTime()) {
			if thumbFile, openErr := os.Open(thumbPath); openErr == nil {
				return thumbFile, thumbInfo, nil
			}
		}
	}

	if err := s.generateThumbnail(photo.StoredPath, thumbPath, size); err != nil {
		return nil, nil, err
	}

	thumbFile, err := os.Open(thumbPath)
	if err != nil {
		return nil, nil, err
	}

	thumbInfo, err := thumbFile.Stat()
	if err != nil {
		_ = thumbFile.Close()
		return nil, nil, err
	}

	return thumbFile, thumbInfo, nil
}

func (s *AlbumService) generateThumbnail(storedPath string, thumbPath string, size int) error {
	source, err := s.store.OpenForRead(storedPath)
	if err != nil {
		return err
	}
	defer source.Close()

	decoded, _, err := image.Decode(source)
	if err != nil {
		return apierror.New("UNSUPPORTED_TYPE", "image could not be decoded", err.Error(), http.StatusUnsupportedMediaType)
	}

	bounds := decoded.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return apierror.New("UNSUPPORTED_TYPE", "image has no pixels", storedPath, http.StatusUnsupportedMediaType)
	}

	// Fit the longest edge into size, keeping the aspect ratio.
	targetWidth, targetHeight := size, size
	if width > height {
		targetHeight = height * size / width
	} else {
		targetWidth = width * size / height
	}
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), decoded, bounds, draw.Over, nil)

	tempFile, err := os.CreateTemp(s.thumbnailRoot, "thumb-*.jpg")
	if err != nil {
		return err
	}

	if err := jpeg.Encode(tempFile, scaled, &jpeg.Options{Quality: 85}); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempFile.Name())
		return err
	}

	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempFile.Name())
		return err
	}

	return os.Rename(tempFile.Name(), thumbPath)
}

func (s *AlbumService) thumbnailPath(storedPath string, size int) string {
	digest := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", storedPath, size)))
	return filepath.Join(s.thumbnailRoot, hex.EncodeToString(digest[:16])+".jpg")
}

func (s *AlbumService) removePhotoFiles(photo model.Photo) {
	if err := s.store.Remove(photo.StoredPath); err != nil {
		slog.Warn("failed to remove photo file", "path", photo.StoredPath, "error", err)
	}

	for _, size := range []int{128, 256, 512, 1024} {
		_ = os.Remove(s.thumbnailPath(photo.StoredPath, size))
	}
}
