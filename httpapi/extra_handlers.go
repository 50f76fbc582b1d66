package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"assetflow/auth"
	"assetflow/authz"
	"assetflow/record"
	"assetflow/report"
	"assetflow/upload"
)

var allowedImageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

func (a *API) markAllNotificationsRead(c *gin.Context) {
	user := requestUser(c)
	email := user.String("email")

	notifications, err := a.Store.List(c.Request.Context(), record.CollectionNotifications)
	if err != nil {
		a.renderStoreError(c, err)
		return
	}

	count := 0
	for _, n := range notifications {
		read, _ := n["read"].(bool)
		if n.String("user_email") != email || read {
			continue
		}
		if _, err := a.Store.Update(c.Request.Context(), record.CollectionNotifications,
			n.String(record.KeyID), record.Document{"read": true}); err != nil {
			a.renderStoreError(c, err)
			return
		}
		count++
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d notifications marked as read.", count)})
}

func (a *API) uploadPropertyImage(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}

	base := filepath.Base(header.Filename)
	if !allowedImageExts[strings.ToLower(filepath.Ext(base))] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
		return
	}

	file, err := header.Open()
	if err != nil {
		a.Logger.Error("open uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer file.Close()

	// Timestamp prefix keeps repeated uploads of the same filename distinct.
	name := time.Now().Format("20060102_150405") + "_" + base
	if err := a.Uploads.Save(c.Request.Context(), name, file); err != nil {
		a.Logger.Error("store uploaded file", "filename", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      "/api/uploads/properties/" + name,
		"filename": name,
	})
}

func (a *API) servePropertyImage(c *gin.Context) {
	filename := c.Param("filename")

	rc, err := a.Uploads.Open(c.Request.Context(), filename)
	if err != nil {
		if errors.Is(err, upload.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		a.Logger.Error("open stored file", "filename", filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		a.Logger.Error("read stored file", "filename", filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, data)
}

func (a *API) exportAssetsCSV(c *gin.Context) {
	user := requestUser(c)

	assets, err := a.Store.List(c.Request.Context(), record.CollectionAssets)
	if err != nil {
		a.renderStoreError(c, err)
		return
	}
	assets = authz.Apply(auth.RoleOf(user), record.CollectionAssets, assets, user.String("email"))

	var buf bytes.Buffer
	if err := report.WriteAssetsCSV(&buf, assets); err != nil {
		a.Logger.Error("render assets csv", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=assets_report.csv")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
