package views

import (
	"bytes"
	"testing"
	"time"

	"kanboard/internal/models"

	"github.com/stretchr/testify/require"
)

func render(t *testing.T, name string, data map[string]any) string {
	t.Helper()
	tmpl, err := Templates()
	require.NoError(t, err)

	if _, ok := data["values"]; !ok {
		data["values"] = map[string]string{}
	}
	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, name, data))
	return buf.String()
}

func TestColumnIndex_ListsColumnsWithActions(t *testing.T) {
	out := render(t, "column/index", map[string]any{
		"title":   "Website",
		"project": models.Project{ID: 3, Name: "Website"},
		"columns": []models.Column{
			{ID: 10, ProjectID: 3, Title: "Backlog", Position: 1},
			{ID: 11, ProjectID: 3, Title: "<Done>", Position: 2, TaskLimit: 4, Description: "finished"},
		},
		"counts": map[int]int64{10: 2},
	})

	require.Contains(t, out, "Backlog")
	require.Contains(t, out, "&lt;Done&gt;")
	require.NotContains(t, out, "<Done>")
	require.Contains(t, out, `action="/column/10/move/down"`)
	require.NotContains(t, out, `action="/column/10/move/up"`)
	require.Contains(t, out, `action="/column/11/move/up"`)
	require.NotContains(t, out, `action="/column/11/move/down"`)
	require.Contains(t, out, `href="/column/11/edit"`)
	require.Contains(t, out, `href="/column/11/remove"`)
	require.Contains(t, out, `action="/project/3/columns"`)
	require.Contains(t, out, "<td>2</td>")
	require.Contains(t, out, "<td>0</td>")
}

func TestColumnIndex_Empty(t *testing.T) {
	out := render(t, "column/index", map[string]any{
		"project": models.Project{ID: 1},
		"columns": []models.Column{},
		"counts":  map[int]int64{},
	})
	require.Contains(t, out, "doesn't have any columns")
}

func TestFileShow_RendersByType(t *testing.T) {
	file := models.File{ID: 5, Name: "shot.png", IsImage: true, Size: 2048, Date: time.Now()}
	out := render(t, "file/show", map[string]any{"file": file, "type": "image", "content": ""})
	require.Contains(t, out, `<img src="/file/5/image" alt="shot.png">`)
	require.Contains(t, out, "2.0 kB")

	file = models.File{ID: 6, Name: "notes.txt"}
	out = render(t, "file/show", map[string]any{"file": file, "type": "text", "content": "<script>alert(1)</script>\nline two"})
	require.Contains(t, out, "&lt;script&gt;")
	require.NotContains(t, out, "<script>")
	require.Contains(t, out, "line two")

	file = models.File{ID: 7, Name: "README.md"}
	out = render(t, "file/show", map[string]any{
		"file":    file,
		"type":    "markdown",
		"content": "# Title\n\n- [x] done\n\n<img src=x onerror=alert(1)>\n\n[link](javascript:alert(1))",
	})
	require.Contains(t, out, "<h1>Title</h1>")
	require.Contains(t, out, `<input checked="" disabled="" type="checkbox"`)
	require.NotContains(t, out, "onerror")
	require.NotContains(t, out, "javascript:")

	out = render(t, "file/show", map[string]any{"file": file, "type": "download", "content": ""})
	require.Contains(t, out, `href="/file/6/download"`)
	require.Contains(t, out, "cannot be displayed")
}

func TestCategoryIndex(t *testing.T) {
	out := render(t, "category/index", map[string]any{
		"project":    models.Project{ID: 2},
		"categories": []models.Category{{ID: 9, ProjectID: 2, Name: "Bug"}},
		"errors":     []string{"name is required"},
	})
	require.Contains(t, out, `href="/category/9/remove"`)
	require.Contains(t, out, "name is required")
}
