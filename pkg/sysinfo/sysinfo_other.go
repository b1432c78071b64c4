//go:build !unix

package sysinfo

import "runtime"

func Stat() (*SysInfo, error) {
	info := SysUnknown
	info.Machine = runtime.GOARCH
	return &info, nil
}
