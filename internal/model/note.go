package model

import (
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/timex"
	"gorm.io/datatypes"
)

const TableNameNote = "note"

// Note mapped from table <note>
type Note struct {
	ID          int64          `gorm:"column:id;primaryKey" json:"id" form:"id"`
	UID         int64          `gorm:"column:uid;not null;index:idx_note_uid_action,priority:1" json:"uid" form:"uid"`
	Action      string         `gorm:"column:action;size:16;not null;index:idx_note_uid_action,priority:2" json:"action" form:"action"`
	Title       string         `gorm:"column:title;size:255" json:"title" form:"title"`
	Format      string         `gorm:"column:format;size:16;not null;default:html" json:"format" form:"format"`
	Content     string         `gorm:"column:content;type:text" json:"content" form:"content"`
	DocJSON     datatypes.JSON `gorm:"column:doc_json" json:"docJson" form:"docJson"`
	DocText     string         `gorm:"column:doc_text;type:text" json:"docText" form:"docText"`
	ContentHash string         `gorm:"column:content_hash;size:64;index" json:"contentHash" form:"contentHash"`
	LinkCount   int            `gorm:"column:link_count;not null;default:0" json:"linkCount" form:"linkCount"`
	Version     int64          `gorm:"column:version;not null;default:0" json:"version" form:"version"`
	CreatedAt   timex.Time     `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt   timex.Time     `gorm:"column:updated_at;index;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Note's table name
func (*Note) TableName() string {
	return TableNameNote
}
