package code

import "net/http"

// 成功码
var (
	Success         = NewSuss(1, lang{en: "Success", zh_cn: "成功"})
	SuccessCreate   = NewSuss(2, lang{en: "Created successfully", zh_cn: "创建成功"})
	SuccessUpdate   = NewSuss(3, lang{en: "Updated successfully", zh_cn: "更新成功"})
	SuccessDelete   = NewSuss(4, lang{en: "Deleted successfully", zh_cn: "删除成功"})
	SuccessNoUpdate = NewSuss(5, lang{en: "Nothing to update", zh_cn: "无需更新"})
)

// 通用错误码
var (
	Failed                    = NewError(400, lang{en: "Failed", zh_cn: "失败"})
	ErrorServerInternal       = NewError(500, lang{en: "Internal server error", zh_cn: "服务器内部错误"}, http.StatusInternalServerError)
	ErrorInvalidParams        = NewError(501, lang{en: "Invalid parameters", zh_cn: "参数错误"}, http.StatusBadRequest)
	ErrorNotFound             = NewError(502, lang{en: "Resource not found", zh_cn: "资源不存在"}, http.StatusNotFound)
	ErrorTooManyRequests      = NewError(503, lang{en: "Too many requests", zh_cn: "请求过多"}, http.StatusTooManyRequests)
	ErrorDBQuery              = NewError(504, lang{en: "Database query failed", zh_cn: "数据库查询失败"})
	ErrorRequestTimeout       = NewError(505, lang{en: "Request timed out", zh_cn: "请求超时"}, http.StatusGatewayTimeout)
	ErrorNotUserAuthToken     = NewError(506, lang{en: "Missing user token", zh_cn: "缺少用户 Token"}, http.StatusUnauthorized)
	ErrorInvalidUserAuthToken = NewError(507, lang{en: "Invalid or expired user token", zh_cn: "用户 Token 无效或已过期"}, http.StatusUnauthorized)
	ErrorConfigSaveFailed     = NewError(508, lang{en: "Failed to save config", zh_cn: "配置保存失败"})
)

// 笔记错误码
var (
	ErrorNoteNotFound             = NewError(601, lang{en: "Note not found", zh_cn: "笔记不存在"}, http.StatusNotFound)
	ErrorNoteGetFailed            = NewError(602, lang{en: "Failed to get note", zh_cn: "获取笔记失败"})
	ErrorNoteListFailed           = NewError(603, lang{en: "Failed to list notes", zh_cn: "获取笔记列表失败"})
	ErrorNoteModifyOrCreateFailed = NewError(604, lang{en: "Failed to save note", zh_cn: "保存笔记失败"})
	ErrorNoteDeleteFailed         = NewError(605, lang{en: "Failed to delete note", zh_cn: "删除笔记失败"})
	ErrorNoteExportFailed         = NewError(606, lang{en: "Failed to export note", zh_cn: "导出笔记失败"})
	ErrorNoteFormatInvalid        = NewError(607, lang{en: "Unsupported note format", zh_cn: "不支持的笔记格式"}, http.StatusBadRequest)
	ErrorNoteVersionConflict      = NewError(608, lang{en: "Note was changed by someone else", zh_cn: "笔记已被修改"}, http.StatusConflict)
)

// PDF 链接错误码
var (
	ErrorPdfLinkInvalid     = NewError(701, lang{en: "Invalid PDF link", zh_cn: "PDF 链接无效"}, http.StatusBadRequest)
	ErrorPdfLinkDecode      = NewError(702, lang{en: "PDF link payload is corrupted", zh_cn: "PDF 链接数据已损坏"}, http.StatusUnprocessableEntity)
	ErrorPdfLinkNotFound    = NewError(703, lang{en: "PDF link not found in note", zh_cn: "笔记中不存在该 PDF 链接"}, http.StatusNotFound)
	ErrorPdfLinkEditFailed  = NewError(704, lang{en: "Failed to edit bookmark", zh_cn: "书签修改失败"})
	ErrorPdfLinkSummaryFail = NewError(705, lang{en: "Failed to list PDF links", zh_cn: "获取 PDF 链接列表失败"})
)
