package app

// 版本信息变量，由构建时 -ldflags 注入
var (
	Version   string = "0.3.0"
	GitTag    string = "2000.01.01.release"
	BuildTime string = "2000-01-01T00:00:00+0800"
)

// Name 应用名称
const Name = "Fast Note PDF Link Service"
