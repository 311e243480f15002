package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lukaspop/Pixel-Dread-website/services"
	"github.com/Lukaspop/Pixel-Dread-website/utils"
)

const maxUploadBytes = 50 << 20

// FileController handles uploads of media bytes later referenced by media
// articles and OGData previews.
type FileController struct {
	files *services.FileService
}

// NewFileController creates a new FileController instance.
func NewFileController(files *services.FileService) *FileController {
	return &FileController{files: files}
}

// Upload stores one multipart file and returns its record. The returned id
// is what post payloads reference as file_informations_id.
func (f *FileController) Upload(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxUploadBytes)

	header, err := ctx.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "file is required")
		return
	}
	if header.Size > maxUploadBytes {
		utils.Error(ctx, http.StatusBadRequest, 40041, "file exceeds the 50MB limit")
		return
	}

	src, err := header.Open()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to read upload")
		return
	}
	defer src.Close()

	file, err := f.files.Save(header.Filename, src)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to store file")
		return
	}

	utils.Respond(ctx, http.StatusCreated, 0, "success", gin.H{"file": file})
}
