package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/config"
	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/response"
)

const maxUploadBytes = 5 << 20 // 5 MiB

var allowedImageTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

type Service struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewService builds the S3 client for media uploads. Returns nil when storage
// is not configured; the handler then reports uploads as unavailable instead
// of failing at startup.
func NewService(cfg config.Storage) *Service {
	if !cfg.Enabled() {
		return nil
	}

	opts := s3.Options{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}

	return &Service{
		client:        s3.New(opts),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

type Result struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// Put stores an image under a date-partitioned random key.
func (s *Service) Put(ctx context.Context, data []byte, contentType, origName string) (*Result, error) {
	ext := allowedImageTypes[contentType]
	if ext == "" {
		ext = strings.ToLower(path.Ext(origName))
	}
	key := fmt.Sprintf("uploads/%s/%s%s",
		time.Now().Format("2006/01"), uuid.NewString(), ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	url := key
	if s.publicBaseURL != "" {
		url = s.publicBaseURL + "/" + key
	}
	return &Result{
		URL:         url,
		Key:         key,
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

func (s *Service) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/upload", authMW)
	g.POST("", h.upload)
	g.DELETE("", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	if h.svc == nil {
		response.BadRequest(c, "uploads are not configured")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.UnprocessableEntity(c, "file exceeds the 5MB limit")
		return
	}

	data, contentType, err := readUpload(fileHeader)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if _, ok := allowedImageTypes[contentType]; !ok {
		response.UnprocessableEntity(c, "only image uploads are allowed")
		return
	}

	result, err := h.svc.Put(c.Request.Context(), data, contentType, fileHeader.Filename)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, result)
}

func (h *Handler) delete(c *gin.Context) {
	if h.svc == nil {
		response.BadRequest(c, "uploads are not configured")
		return
	}
	key := strings.TrimSpace(c.Query("key"))
	if key == "" || strings.Contains(key, "..") {
		response.BadRequest(c, "invalid object key")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), key); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// readUpload reads the file and sniffs its real content type; the declared
// multipart header is not trusted.
func readUpload(fh *multipart.FileHeader) ([]byte, string, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxUploadBytes {
		return nil, "", fmt.Errorf("file exceeds the size limit")
	}

	contentType := http.DetectContentType(data)
	// DetectContentType cannot identify SVG; fall back to the declared type
	if contentType == "text/xml; charset=utf-8" || strings.HasPrefix(contentType, "text/plain") {
		if declared := fh.Header.Get("Content-Type"); declared == "image/svg+xml" {
			contentType = declared
		}
	}
	if i := strings.Index(contentType, ";"); i > 0 {
		contentType = contentType[:i]
	}
	return data, contentType, nil
}
