package uploads

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"placement-ats/internal/shared/server/respond"
	"placement-ats/internal/shared/telemetry"
	"placement-ats/internal/shared/util"
)

const (
	maxUploadBytes = 10 << 20
	presignExpires = 15 * time.Minute
	defaultRegion  = "us-east-1"
	keyNamespace   = "resumes"
)

var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"text/plain": {},
}

type presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Handler issues presigned S3 upload URLs for resume files. The returned
// key is accepted as resume_file_key by the evaluation endpoints.
type Handler struct {
	presign presigner
	bucket  string
	prefix  string
}

// NewHandler builds a Handler for bucket. prefix must match the object store prefix.
func NewHandler(ctx context.Context, region, bucket, prefix string) (*Handler, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required for uploads")
	}
	region = strings.TrimSpace(region)
	if region == "" {
		region = defaultRegion
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newHandler(s3.NewPresignClient(s3.NewFromConfig(cfg)), bucket, prefix), nil
}

func newHandler(p presigner, bucket, prefix string) *Handler {
	return &Handler{
		presign: p,
		bucket:  bucket,
		prefix:  strings.Trim(strings.TrimSpace(prefix), "/"),
	}
}

type presignRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
	SizeBytes   int64  `json:"size_bytes" binding:"required,gt=0"`
}

type presignResponse struct {
	UploadURL        string `json:"upload_url"`
	ResumeFileKey    string `json:"resume_file_key"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"`
}

// RegisterRoutes attaches the upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/presign", h.presignUpload)
}

func (h *Handler) presignUpload(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if _, ok := allowedContentTypes[contentType]; !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "content_type is not allowed", []map[string]string{
			{"field": "content_type", "issue": "oneof=pdf,docx,txt"},
		})
		return
	}
	if req.SizeBytes > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "size_bytes exceeds limit", []map[string]string{
			{"field": "size_bytes", "issue": fmt.Sprintf("max=%d", maxUploadBytes)},
		})
		return
	}

	sanitized, err := util.SanitizeFileName(req.FileName)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file_name", []map[string]string{
			{"field": "file_name", "issue": err.Error()},
		})
		return
	}

	key := path.Join(keyNamespace, uuid.NewString(), sanitized)
	objectKey := key
	if h.prefix != "" {
		objectKey = h.prefix + "/" + key
	}

	out, err := h.presign.PresignPutObject(c.Request.Context(), presignInput(h.bucket, objectKey, contentType), func(opts *s3.PresignOptions) {
		opts.Expires = presignExpires
	})
	if err != nil {
		telemetry.Error("uploads.presign.failed", map[string]any{
			"err":          err.Error(),
			"bucket":       h.bucket,
			"key":          objectKey,
			"content_type": contentType,
			"size_bytes":   req.SizeBytes,
			"request_id":   c.GetString("requestId"),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate upload url", nil)
		return
	}

	respond.JSON(c, http.StatusOK, presignResponse{
		UploadURL:        out.URL,
		ResumeFileKey:    key,
		ExpiresInSeconds: int64(presignExpires.Seconds()),
	})
}

func presignInput(bucket, key, contentType string) *s3.PutObjectInput {
	return &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}
}
