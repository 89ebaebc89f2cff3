package runner

import (
	"os"
	"path/filepath"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2024/9/4 20:02
 * @file: runner.go
 * @description: process runtime info
 */

var (
	Pwd      string
	Hostname string
)

func init() {
	Hostname, _ = os.Hostname()
	exe, err := os.Executable()
	if err != nil {
		Pwd = "/"
	} else {
		Pwd = filepath.Dir(exe)
	}
}
