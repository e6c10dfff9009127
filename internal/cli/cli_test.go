package cli

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"M": 12, "N": 3})
	})
	r.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{
			{"userid": 80001, "username": "p_sarkar", "givenname": "Priya", "familyname": "Sarkar"},
		}})
	})
	r.GET("/images", func(c *gin.Context) {
		if c.Query("userid") == "80001" {
			c.JSON(http.StatusOK, gin.H{"data": []gin.H{
				{"assetid": 1001, "userid": 80001, "localname": "cat.jpg", "bucketkey": "abc/cat.jpg"},
			}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{}})
	})
	r.GET("/image/:assetid", func(c *gin.Context) {
		if c.Param("assetid") != "1001" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "no such assetid"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"local_filename": "cat.jpg",
			"data":           base64.StdEncoding.EncodeToString([]byte("jpeg bytes")),
		})
	})
	r.DELETE("/images", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPingCommand(t *testing.T) {
	srv := newTestService(t)

	out, err := runCommand(t, "ping", "--url", srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "assets=12 users=3\n", out)
}

func TestUsersCommand(t *testing.T) {
	srv := newTestService(t)

	out, err := runCommand(t, "users", "--url", srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "userid=80001 username=p_sarkar name=\"Priya Sarkar\"\n", out)
}

func TestImagesCommandFiltersByUser(t *testing.T) {
	srv := newTestService(t)

	out, err := runCommand(t, "images", "--url", srv.URL, "--userid", "80001")
	require.NoError(t, err)
	assert.Contains(t, out, "assetid=1001")

	out, err = runCommand(t, "images", "--url", srv.URL)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDownloadCommand(t *testing.T) {
	srv := newTestService(t)
	target := filepath.Join(t.TempDir(), "local.jpg")

	out, err := runCommand(t, "download", "1001", "--url", srv.URL, "--output", target)

	require.NoError(t, err)
	assert.Equal(t, "wrote "+target+"\n", out)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
}

func TestDownloadCommand_InvalidAssetID(t *testing.T) {
	_, err := runCommand(t, "download", "not-a-number", "--url", "http://localhost:1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid assetid")
}

func TestUploadCommand_RequiresUserID(t *testing.T) {
	_, err := runCommand(t, "upload", "some.jpg", "--url", "http://localhost:1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--userid")
}

func TestDeleteAllCommand_RequiresConfirmation(t *testing.T) {
	srv := newTestService(t)

	_, err := runCommand(t, "delete-all", "--url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out, err := runCommand(t, "delete-all", "--url", srv.URL, "--yes")
	require.NoError(t, err)
	assert.Equal(t, "all images deleted\n", out)
}

func TestRootCommand_RequiresBaseURL(t *testing.T) {
	t.Setenv("PHOTOAPP_WEBSERVICE", "")

	_, err := runCommand(t, "ping")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "web service URL is required")
}
