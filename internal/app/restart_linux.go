//go:build linux

package app

import (
	"os"
	"syscall"
)

// Reexec replaces the running process with a fresh copy of the same binary,
// used on SIGHUP after the servers have shut down.
// Reexec 在收到 SIGHUP 且服务关闭后，用同一二进制替换当前进程
func Reexec() error {
	bin, err := os.Executable()
	if err != nil {
		return err
	}
	return syscall.Exec(bin, os.Args, os.Environ())
}
