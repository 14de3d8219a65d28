// internals/helpers/oss/oss_receipt_archive.go
package helper

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	SecurityToken string
	Bucket        string
	Prefix        string // mis. "receipts"
	PublicBase    string // optional CDN base
}

func (c Config) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

/* =======================================================================
   OSS Service (arsip kwitansi)
======================================================================= */

type OSSService struct {
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string
	PublicBase string
	Logger     *zap.Logger
}

func NewOSSService(cfg Config, logger *zap.Logger) (*OSSService, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing OSS config: endpoint/access key/secret key/bucket")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	endpoint := normalizeEndpoint(cfg.Endpoint)

	var (
		client *oss.Client
		err    error
	)
	if cfg.SecurityToken != "" {
		client, err = oss.New(endpoint, cfg.AccessKey, cfg.SecretKey, oss.SecurityToken(cfg.SecurityToken))
	} else {
		client, err = oss.New(endpoint, cfg.AccessKey, cfg.SecretKey)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// Verifikasi ringan lokasi bucket
	if loc, err := client.GetBucketLocation(cfg.Bucket); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 && se.Code == "AccessDenied" {
			logger.Warn("oss: skip location check (AccessDenied)", zap.String("bucket", cfg.Bucket))
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		logger.Info("oss: bucket ready", zap.String("bucket", cfg.Bucket), zap.String("location", loc))
	}

	return &OSSService{
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: cfg.Bucket,
		Prefix:     strings.Trim(cfg.Prefix, "/"),
		PublicBase: strings.TrimRight(cfg.PublicBase, "/"),
		Logger:     logger,
	}, nil
}

// ReceiptKey: <prefix>/<yyyy>/<mm>/<receipt>.xlsx
func ReceiptKey(prefix, receiptNumber string, issued time.Time) string {
	name := safePart(receiptNumber)
	if name == "" {
		name = "receipt"
	}
	return joinParts(prefix, issued.Format("2006"), issued.Format("01"), name+".xlsx")
}

// ArchiveReceipt uploads an exported receipt workbook and returns its public URL.
func (s *OSSService) ArchiveReceipt(ctx context.Context, receiptNumber string, issued time.Time, body []byte) (string, error) {
	key := ReceiptKey(s.Prefix, receiptNumber, issued)
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(xlsxContentType),
		oss.ContentDisposition(fmt.Sprintf("attachment; filename=%q", path.Base(key))),
	}
	if err := s.Bucket.PutObject(key, bytes.NewReader(body), opts...); err != nil {
		return "", fmt.Errorf("put receipt %s: %w", key, err)
	}
	s.Logger.Debug("oss: receipt archived", zap.String("key", key), zap.Int("bytes", len(body)))
	return s.PublicURL(key), nil
}

func (s *OSSService) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.PublicBase != "" {
		return s.PublicBase + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, end, key)
}

/* =======================================================================
   Key utils
======================================================================= */

func normalizeEndpoint(ep string) string {
	ep = strings.TrimSpace(ep)
	if ep == "" {
		return ""
	}
	if !strings.HasPrefix(ep, "http://") && !strings.HasPrefix(ep, "https://") {
		ep = "https://" + ep
	}
	return strings.TrimRight(ep, "/")
}

func safePart(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func joinParts(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "/")
}
