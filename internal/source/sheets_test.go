package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSheetClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("tab") {
		case "Metas":
			_, _ = w.Write([]byte(`[{"BASES":"LRJ01","TIPO_META":1}]`))
		case "Broken":
			_, _ = w.Write([]byte(`{"error":"no such tab"}`))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewHTTPSheetClient(srv.URL+"/exec", time.Second)
	assert.Equal(t, srv.URL+"/exec", c.Origin())

	rows, err := c.FetchTab(context.Background(), "Metas")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "LRJ01", rows[0]["BASES"])
	assert.Equal(t, 1.0, rows[0]["TIPO_META"])

	_, err = c.FetchTab(context.Background(), "Broken")
	assert.ErrorContains(t, err, "decode tab")

	_, err = c.FetchTab(context.Background(), "Other")
	assert.ErrorContains(t, err, "unexpected status")
}

func TestDirSheetClient(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Lista de Bases.json"), []byte(`[{"BASES":"LRJ01"}]`), 0o644))

	c := NewDirSheetClient(dir)
	rows, err := c.FetchTab(context.Background(), "Lista de Bases")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = c.FetchTab(context.Background(), "QLP")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.FetchTab(ctx, "Lista de Bases")
	assert.ErrorIs(t, err, context.Canceled)
}
