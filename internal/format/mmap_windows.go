//go:build windows

package format

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

// mmapFile memory-maps a file for reading (Windows implementation).
//
// The unsafe conversion is sound: the address comes from MapViewOfFile,
// the length is exactly what was mapped, and the pages are PAGE_READONLY.
func mmapFile(f *os.File, size int64) ([]byte, error) {
	handle, err := syscall.CreateFileMapping(
		syscall.Handle(f.Fd()),
		nil,
		syscall.PAGE_READONLY,
		uint32(size>>32), //nolint:gosec // G115: high dword of the mapping size
		uint32(size),     //nolint:gosec // G115: low dword of the mapping size
		nil,
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = syscall.CloseHandle(handle)
	}()

	addr, err := syscall.MapViewOfFile(
		handle,
		syscall.FILE_MAP_READ,
		0,
		0,
		uintptr(size), //nolint:gosec // G115: int64-to-uintptr needed for syscall
	)
	if err != nil {
		return nil, err
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

// munmapFile unmaps a memory-mapped file (Windows implementation).
func munmapFile(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("cannot unmap empty data")
	}
	return syscall.UnmapViewOfFile(uintptr(unsafe.Pointer(unsafe.SliceData(data))))
}
