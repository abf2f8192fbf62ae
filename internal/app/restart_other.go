//go:build !linux

package app

import (
	"os"
	"os/exec"
)

// Reexec starts a fresh copy of the binary and exits the current process.
// Reexec 启动新进程后退出当前进程
func Reexec() error {
	bin, err := os.Executable()
	if err != nil {
		return err
	}
	cmd := exec.Command(bin, os.Args[1:]...)
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	cmd.Env = os.Environ()
	if err := cmd.Start(); err != nil {
		return err
	}
	os.Exit(0)
	return nil
}
