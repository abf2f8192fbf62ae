package upgrade

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-pdf-link-service/internal/model"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/pdflink"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/timex"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/util"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// saltMigrateBatch 每批读取的笔记数
const saltMigrateBatch = 100

// SaltMigrate 把旧盐值写入的链接节点改写为当前盐值
// 改写后的笔记版本号加一，客户端会在下次同步时拿到新内容
type SaltMigrate struct {
	Formatter *pdflink.DateFormatter
	Logger    *zap.Logger
	now       func() time.Time
}

// Version 返回版本号
func (m *SaltMigrate) Version() string {
	return "0.3.0"
}

// Description 返回描述
func (m *SaltMigrate) Description() string {
	return "Rewrite PDF link nodes carrying the legacy salt to the current salt"
}

// Up 执行升级
func (m *SaltMigrate) Up(db *gorm.DB, ctx context.Context) error {
	now := time.Now
	if m.now != nil {
		now = m.now
	}
	lg := m.Logger
	if lg == nil {
		lg = zap.NewNop()
	}

	var (
		rows    []*model.Note
		notes   int
		rewrote int
	)
	update := db.Session(&gorm.Session{NewDB: true}).WithContext(ctx)

	result := db.WithContext(ctx).Model(&model.Note{}).FindInBatches(&rows, saltMigrateBatch, func(tx *gorm.DB, batch int) error {
		for _, row := range rows {
			content := row.Content
			if row.Format == "json" && len(row.DocJSON) > 0 {
				content = string(row.DocJSON)
			}

			var (
				out string
				n   int
				err error
			)
			if row.Format == "markdown" {
				out, n = pdflink.UpgradeMarkdownSalt(content, m.Formatter)
			} else {
				out, n, err = pdflink.UpgradeSalt(content, m.Formatter)
			}
			if err != nil {
				lg.Warn("salt migrate: skip unparsable note", zap.Int64("noteId", row.ID), zap.Error(err))
				continue
			}
			if n == 0 {
				continue
			}

			fields := map[string]any{
				"content_hash": util.ContentHash(out),
				"version":      row.Version + 1,
				"updated_at":   timex.Time(now()),
			}
			if row.Format == "json" {
				fields["doc_json"] = datatypes.JSON(out)
			} else {
				fields["content"] = out
			}
			if err := update.Model(&model.Note{}).Where("id = ?", row.ID).Updates(fields).Error; err != nil {
				return err
			}
			notes++
			rewrote += n
		}
		return nil
	})
	if result.Error != nil {
		return result.Error
	}

	lg.Info("salt migrate finished", zap.Int("notes", notes), zap.Int("links", rewrote))
	return nil
}
