package cmd

import (
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	internalApp "github.com/haierkeys/fast-note-pdf-link-service/internal/app"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/util"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	dir     string // 项目根目录
	port    string // 启动端口
	runMode string // 启动模式
	config  string // 指定要使用的配置文件路径
}

// defaultConfigPaths 未指定配置文件时依次查找
var defaultConfigPaths = []string{
	"config/config-dev.yaml",
	"config.yaml",
	"config/config.yaml",
}

// serverHolder 配置热重载时替换当前 Server
type serverHolder struct {
	mu sync.Mutex
	s  *Server
}

func (h *serverHolder) get() *Server {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.s
}

func (h *serverHolder) set(s *Server) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.s = s
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			if len(runEnv.dir) > 0 {
				if err := os.Chdir(runEnv.dir); err != nil {
					bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
				}
				bootstrapLogger.Info("working directory changed", zap.String("dir", runEnv.dir))
			}

			if len(runEnv.config) <= 0 {
				runEnv.config = findConfig()
			}
			if len(runEnv.config) <= 0 {
				runEnv.config = "config/config.yaml"
				if err := writeDefaultConfig(runEnv.config); err != nil {
					bootstrapLogger.Error("config file auto create error", zap.Error(err))
					return
				}
				bootstrapLogger.Info("config file auto create successfully", zap.String("path", runEnv.config))
			}

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}
			holder := &serverHolder{s: s}

			w := watchConfig(runEnv, holder)
			defer w.Close()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
			sig := <-quit

			s = holder.get()
			s.logger.Info("Received signal, initiating graceful shutdown...", zap.String("signal", sig.String()))
			s.sc.SendCloseSignal(nil)

			// 等待所有关闭处理器完成（包括 App Container 的优雅关闭）
			if err := s.sc.WaitClosed(); err != nil {
				s.logger.Error("Shutdown completed with error", zap.Error(err))
			} else {
				s.logger.Info("Service has been shut down gracefully.")
			}

			if sig == syscall.SIGHUP {
				s.logger.Info("Restarting process")
				if err := internalApp.Reexec(); err != nil {
					s.logger.Error("Failed to restart process", zap.Error(err))
				}
			}
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}

func findConfig() string {
	for _, p := range defaultConfigPaths {
		if util.IsExist(p) {
			return p
		}
	}
	return ""
}

// writeDefaultConfig 写出内置配置，并把默认密钥替换为随机值
func writeDefaultConfig(path string) error {
	bootstrapLogger.Warn("config file not found, creating default config")

	content := strings.Replace(configDefault, defaultTokenKeyPlaceholder, util.GetRandomString(32), 1)
	if err := util.CreatePath(path, os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// watchConfig 监听配置文件，写入后关闭当前服务并用新配置重新启动
func watchConfig(runEnv *runFlags, holder *serverHolder) *watcher.Watcher {
	w := watcher.New()

	// 每个监听周期至多接收 1 个事件
	w.SetMaxEvents(1)
	// 只通知写入事件
	w.FilterOps(watcher.Write)

	go func() {
		for {
			select {
			case event := <-w.Event:
				old := holder.get()
				old.logger.Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))
				old.sc.SendCloseSignal(nil)
				if err := old.sc.WaitClosed(); err != nil {
					old.logger.Error("shutdown before reload failed", zap.Error(err))
				}

				// 重新初始化 server
				s, err := NewServer(runEnv)
				if err != nil {
					bootstrapLogger.Error("service start err", zap.Error(err))
					continue
				}
				holder.set(s)

			case err := <-w.Error:
				holder.get().logger.Error("config watcher error", zap.Error(err))
			case <-w.Closed:
				bootstrapLogger.Info("config watcher closed")
				return
			}
		}
	}()

	if err := w.Add(runEnv.config); err != nil {
		holder.get().logger.Error("config watcher file error", zap.Error(err))
	}

	go func() {
		if err := w.Start(time.Second * 5); err != nil {
			holder.get().logger.Error("config watcher start error", zap.Error(err))
		}
	}()

	return w
}
