package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetboard/internal/normalize"
	"fleetboard/internal/sheet"
)

// readUploadedFile 读取 multipart 表单中指定字段的上传文件
func readUploadedFile(c *gin.Context, field string) (data []byte, filename string, ok bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件: " + field})
		return nil, "", false
	}

	data, err = openAndRead(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
		return nil, "", false
	}
	return data, fileHeader.Filename, true
}

func openAndRead(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// parseUpload 按文件名猜格式解析，格式错误统一回 400
func parseUpload(c *gin.Context, data []byte, filename string) (*sheet.Table, bool) {
	table, err := sheet.Read(data, sheet.FormatForFilename(filename))
	if err != nil {
		var parseErr *sheet.ParseError
		if errors.As(err, &parseErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "文件解析失败: " + parseErr.Error()})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return table, true
}

// UploadOOS 上传停驶表
// POST /api/upload/oos
func (h *Handler) UploadOOS(c *gin.Context) {
	data, filename, ok := readUploadedFile(c, "file")
	if !ok {
		return
	}
	table, ok := parseUpload(c, data, filename)
	if !ok {
		return
	}

	report, err := h.coordinator.ImportOOS(filename, table)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// UploadLocations 上传位置表
// POST /api/upload/locations
func (h *Handler) UploadLocations(c *gin.Context) {
	data, filename, ok := readUploadedFile(c, "file")
	if !ok {
		return
	}
	table, ok := parseUpload(c, data, filename)
	if !ok {
		return
	}

	report, err := h.coordinator.ImportLocations(filename, table)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// UploadLegacy 旧版定位 CSV 模式：一次上传两个文件（oos + locations）
// POST /api/upload/legacy
func (h *Handler) UploadLegacy(c *gin.Context) {
	oosData, oosName, ok := readUploadedFile(c, "oos")
	if !ok {
		return
	}
	locData, locName, ok := readUploadedFile(c, "locations")
	if !ok {
		return
	}

	oosRows, err := sheet.ReadRaw(oosData, sheet.FormatForFilename(oosName))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文件解析失败: " + err.Error()})
		return
	}
	locRows, err := sheet.ReadRaw(locData, sheet.FormatForFilename(locName))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文件解析失败: " + err.Error()})
		return
	}

	report, err := h.coordinator.ImportLegacy(oosName, oosRows, locRows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// SelectJoinKey 改选连接键并重新合并
// POST /api/join-key
func (h *Handler) SelectJoinKey(c *gin.Context) {
	var body struct {
		Key string `json:"key"`
	}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if normalize.Clean(body.Key) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "连接键不能为空"})
		return
	}

	merged, err := h.coordinator.SelectJoinKey(body.Key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"joinKey": h.coordinator.JoinKey(), "mergedRows": merged})
}
