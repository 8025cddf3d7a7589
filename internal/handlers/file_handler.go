package handlers

import (
	"io"
	"net/http"

	"kanboard/internal/metrics"
	"kanboard/internal/models"
	"kanboard/internal/realtime"
	"kanboard/internal/repository"

	"github.com/gin-gonic/gin"
)

// MaxUploadSize caps the bytes read from one uploaded file.
const MaxUploadSize = 32 << 20

// ListFiles handles GET /api/tasks/:id/files
func ListFiles(c *gin.Context) {
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := taskRepo().GetByID(c.Request.Context(), taskID); err != nil {
		respondError(c, err, "Failed to fetch task")
		return
	}

	files, err := fileRepo().GetAll(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err, "Failed to fetch files")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"files": files,
		"count": len(files),
	})
}

// UploadFile handles POST /api/tasks/:id/files (multipart field "file")
func UploadFile(c *gin.Context) {
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file is required"})
		return
	}
	if header.Size > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is too large"})
		return
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read the uploaded file"})
		return
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, MaxUploadSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read the uploaded file"})
		return
	}

	file, err := fileRepo().Create(c.Request.Context(), taskID, header.Filename, content)
	if err != nil {
		respondError(c, err, "Failed to store file")
		return
	}

	if task, err := taskRepo().GetByID(c.Request.Context(), taskID); err == nil {
		realtime.GetHub().Publish(task.ProjectID, realtime.FileCreated, file.ID)
	}
	c.JSON(http.StatusCreated, file)
}

// RemoveFile handles DELETE /api/files/:id
func RemoveFile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := fileRepo().Remove(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to remove file")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "File removed successfully",
		"id":      id,
	})
}

// loadFile fetches the file named by the :id parameter of an HTML route.
func loadFile(c *gin.Context) (*repository.FileRepository, *models.File, bool) {
	id, ok := pageID(c, "id")
	if !ok {
		return nil, nil, false
	}
	repo := fileRepo()
	file, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		renderError(c, err, "Unable to load file")
		return nil, nil, false
	}
	return repo, file, true
}

// ShowFile handles GET /file/:id, the file viewer.
func ShowFile(c *gin.Context) {
	repo, file, ok := loadFile(c)
	if !ok {
		return
	}

	viewer := repository.ViewImage
	content := ""
	if !file.IsImage {
		raw, err := repo.ReadContent(file)
		if err != nil {
			renderError(c, err, "Unable to open file")
			return
		}
		viewer = repository.ViewerType(file, raw)
		content = string(raw)
	}

	metrics.FileViews.WithLabelValues(viewer).Inc()
	render(c, http.StatusOK, "file/show", gin.H{
		"title":   file.Name,
		"file":    file,
		"type":    viewer,
		"content": content,
	})
}

// FileImage handles GET /file/:id/image and serves image bytes inline.
func FileImage(c *gin.Context) {
	repo, file, ok := loadFile(c)
	if !ok {
		return
	}
	if !file.IsImage {
		renderError(c, repository.ErrInvalidFile, "")
		return
	}
	c.File(repo.AbsPath(file))
}

// FileDownload handles GET /file/:id/download
func FileDownload(c *gin.Context) {
	repo, file, ok := loadFile(c)
	if !ok {
		return
	}
	c.FileAttachment(repo.AbsPath(file), file.Name)
}
