package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	nftstorageif "github.com/unicus/v1/pkg/interfaces/nftstorage"
	"github.com/unicus/v1/pkg/types"
)

// UploadHandlers 元数据上传与内容读取接口
type UploadHandlers struct {
	uploader nftstorageif.Uploader
	logger   log.Logger
}

// NewUploadHandlers 创建上传接口处理器
func NewUploadHandlers(uploader nftstorageif.Uploader, logger log.Logger) *UploadHandlers {
	return &UploadHandlers{uploader: uploader, logger: logger}
}

// RegisterRoutes 注册上传路由
func (h *UploadHandlers) RegisterRoutes(r *gin.RouterGroup) {
	uploads := r.Group("/uploads")
	{
		uploads.POST("", h.Upload)
		uploads.GET("/:cid", h.Get)
		uploads.GET("/:cid/:name", h.Resolve)
	}
}

// Upload 上传图片与手表元数据
//
// POST /api/v1/uploads
//
// 支持两种请求体：
//   - application/json：{"image": "data:image/png;base64,...", "metadata": {...}}
//   - multipart/form-data：image 文件字段 + metadata JSON 字段
func (h *UploadHandlers) Upload(c *gin.Context) {
	var req types.UploadRequest

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if !h.bindMultipart(c, &req) {
			return
		}
	} else if !bindJSON(c, &req) {
		return
	}

	result, err := h.uploader.Upload(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.logger.Infof("元数据上传完成: locator=%s size=%d", result.Locator, result.ImageSize)
	respond(c, http.StatusCreated, result)
}

// bindMultipart 解析 multipart 上传
func (h *UploadHandlers) bindMultipart(c *gin.Context, req *types.UploadRequest) bool {
	if err := json.Unmarshal([]byte(c.PostForm("metadata")), &req.Metadata); err != nil {
		invalid(c, "invalid metadata field: %v", err)
		return false
	}

	header, err := c.FormFile("image")
	if err != nil {
		invalid(c, "image file is required: %v", err)
		return false
	}
	f, err := header.Open()
	if err != nil {
		fail(c, err)
		return false
	}
	defer f.Close()

	if req.Image, err = io.ReadAll(f); err != nil {
		fail(c, err)
		return false
	}
	if req.Metadata.FileName == "" {
		req.Metadata.FileName = header.Filename
	}
	if req.Metadata.FileType == "" {
		req.Metadata.FileType = header.Header.Get("Content-Type")
	}
	return true
}

// Get 按CID读取对象
//
// GET /api/v1/uploads/:cid
func (h *UploadHandlers) Get(c *gin.Context) {
	data, contentType, err := h.uploader.Get(c.Request.Context(), c.Param("cid"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// Resolve 按 "<dirCID>/<name>" 读取目录中的文件
//
// GET /api/v1/uploads/:cid/:name
func (h *UploadHandlers) Resolve(c *gin.Context) {
	data, contentType, err := h.uploader.Resolve(c.Request.Context(), c.Param("cid")+"/"+c.Param("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}
