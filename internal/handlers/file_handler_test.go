package handlers

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"kanboard/internal/models"
	"kanboard/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func seedFile(t *testing.T, taskID int, name string, content []byte) *models.File {
	t.Helper()
	file, err := fileRepo().Create(context.Background(), taskID, name, content)
	require.NoError(t, err)
	return file
}

func fileRouter() *gin.Engine {
	r := newTestRouter()
	r.GET("/file/:id", ShowFile)
	r.GET("/file/:id/image", FileImage)
	r.GET("/file/:id/download", FileDownload)
	return r
}

func TestShowFile_ViewerTypes(t *testing.T) {
	db := setupTestDB(t)
	project := seedBoard(t, db, "Website")
	task := seedTask(t, db, project.ID, 0, 0, "Write docs")
	r := fileRouter()

	text := seedFile(t, task.ID, "notes.txt", []byte("first line\nsecond <line>\n"))
	w := doGet(r, fmt.Sprintf("/file/%d", text.ID))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, "notes.txt")
	require.Contains(t, body, "first line")
	require.Contains(t, body, "second &lt;line&gt;")
	require.Contains(t, body, fmt.Sprintf("/file/%d/download", text.ID))

	md := seedFile(t, task.ID, "README.md", []byte("# Title\n\nSome *notes* <script>alert(1)</script>\n"))
	w = doGet(r, fmt.Sprintf("/file/%d", md.ID))
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	require.Contains(t, body, `<div class="markdown"><h1>Title</h1>`)
	require.Contains(t, body, "<em>notes</em>")
	require.NotContains(t, body, "<script>")

	img := seedFile(t, task.ID, "screen.PNG", []byte{0x89, 'P', 'N', 'G'})
	require.True(t, img.IsImage)
	w = doGet(r, fmt.Sprintf("/file/%d", img.ID))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), fmt.Sprintf(`<img src="/file/%d/image"`, img.ID))

	bin := seedFile(t, task.ID, "archive.zip", []byte{0x50, 0x4b, 0x00, 0xff})
	w = doGet(r, fmt.Sprintf("/file/%d", bin.ID))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "download it instead")

	w = doGet(r, "/file/999")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestFileImageAndDownload(t *testing.T) {
	db := setupTestDB(t)
	project := seedBoard(t, db, "Website")
	task := seedTask(t, db, project.ID, 0, 0, "Write docs")
	r := fileRouter()

	img := seedFile(t, task.ID, "screen.png", []byte("png-bytes"))
	w := doGet(r, fmt.Sprintf("/file/%d/image", img.ID))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "png-bytes", w.Body.String())

	text := seedFile(t, task.ID, "notes.txt", []byte("hello"))
	w = doGet(r, fmt.Sprintf("/file/%d/image", text.ID))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(r, fmt.Sprintf("/file/%d/download", text.ID))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	require.Contains(t, w.Header().Get("Content-Disposition"), "notes.txt")
	require.Equal(t, "hello", w.Body.String())
}

func TestUploadListAndRemoveFile(t *testing.T) {
	db := setupTestDB(t)
	project := seedBoard(t, db, "Website")
	task := seedTask(t, db, project.ID, 0, 0, "Write docs")

	client := &recordingClient{}
	realtime.GetHub().Register(project.ID, client)
	defer realtime.GetHub().Unregister(project.ID, client)

	r := newTestRouter()
	r.POST("/api/tasks/:id/files", UploadFile)
	r.GET("/api/tasks/:id/files", ListFiles)
	r.DELETE("/api/files/:id", RemoveFile)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "../../etc/report.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("quarterly numbers"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/tasks/%d/files", task.ID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	uploaded := decode[models.File](t, w)
	require.Equal(t, "report.txt", uploaded.Name)
	require.EqualValues(t, len("quarterly numbers"), uploaded.Size)
	require.Len(t, client.events, 1)
	require.Equal(t, realtime.FileCreated, client.events[0]["type"])

	stored, err := fileRepo().GetByID(context.Background(), uploaded.ID)
	require.NoError(t, err)
	content, err := os.ReadFile(fileRepo().AbsPath(stored))
	require.NoError(t, err)
	require.Equal(t, "quarterly numbers", string(content))

	w = doGet(r, fmt.Sprintf("/api/tasks/%d/files", task.ID))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, decode[struct{ Count int }](t, w).Count)

	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/tasks/%d/files", task.ID), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/files/%d", uploaded.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, err = os.Stat(fileRepo().AbsPath(stored))
	require.True(t, os.IsNotExist(err))

	w = doGet(r, "/api/tasks/999/files")
	require.Equal(t, http.StatusNotFound, w.Code)
}
