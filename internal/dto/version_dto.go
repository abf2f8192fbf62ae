package dto

// VersionRequest 版本检查请求
type VersionRequest struct {
	ClientVersion string `json:"clientVersion" form:"clientVersion"`
}

// VersionDTO 服务端版本与客户端兼容性
type VersionDTO struct {
	Version          string `json:"version"`
	GitTag           string `json:"gitTag"`
	BuildTime        string `json:"buildTime"`
	ClientVersion    string `json:"clientVersion,omitempty"`
	ClientSupported  bool   `json:"clientSupported"`
	MinClientVersion string `json:"minClientVersion"`
}
