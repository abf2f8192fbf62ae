// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import (
	"time"

	"github.com/haierkeys/fast-note-pdf-link-service/pkg/pdflink"
)

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	App     AppServiceConfig     // App related config // 应用相关配置
	PdfLink PdfLinkServiceConfig // PDF link related config // PDF 链接相关配置
}

// AppServiceConfig app service configuration
// AppServiceConfig 应用服务配置
type AppServiceConfig struct {
	// Soft deleted notes older than this are removed, 0 disables cleanup
	// 软删除笔记保留时长，0 表示不自动清理
	SoftDeleteRetention time.Duration
}

// PdfLinkServiceConfig PDF link service configuration
// PdfLinkServiceConfig PDF 链接服务配置
type PdfLinkServiceConfig struct {
	Locale    string                   // Date text locale (en, zh) // 日期文本语言
	Location  *time.Location           // Date text time zone // 日期文本时区
	Recognize pdflink.RecognizeOptions // Accepted node salts // 可识别的节点盐值
}

// DefaultServiceConfig returns the configuration used when none is given
// DefaultServiceConfig 返回默认服务配置
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		PdfLink: PdfLinkServiceConfig{
			Locale:    "en",
			Location:  time.UTC,
			Recognize: pdflink.DefaultRecognizeOptions,
		},
	}
}

func (c *ServiceConfig) formatter() *pdflink.DateFormatter {
	return pdflink.NewDateFormatter(c.PdfLink.Locale, c.PdfLink.Location)
}
