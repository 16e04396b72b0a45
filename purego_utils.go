//go:build darwin || linux

// Shared utilities for the purego-based FFmpeg bindings.

package lavdec

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// goStringFromPtr converts a C string pointer to a Go string.
func goStringFromPtr(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	p := unsafe.Pointer(ptr)
	var length int
	for {
		if *(*byte)(unsafe.Pointer(uintptr(p) + uintptr(length))) == 0 {
			break
		}
		length++
		if length > 4096 { // Safety limit
			break
		}
	}
	if length == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(p), length))
}

// libFileNames returns candidate file names for an FFmpeg library,
// most specific (versioned) first.
func libFileNames(name string, major int) []string {
	if runtime.GOOS == "darwin" {
		return []string{
			fmt.Sprintf("lib%s.%d.dylib", name, major),
			fmt.Sprintf("lib%s.dylib", name),
		}
	}
	return []string{
		fmt.Sprintf("lib%s.so.%d", name, major),
		fmt.Sprintf("lib%s.so", name),
	}
}

// libSearchPaths returns candidate paths for an FFmpeg library.
// Environment overrides take priority, then common install locations,
// then the bare name (dlopen consults the system search path).
func libSearchPaths(name string, major int) []string {
	var paths []string
	files := libFileNames(name, major)

	if dir := os.Getenv("LAVDEC_LIB_PATH"); dir != "" {
		for _, f := range files {
			paths = append(paths, filepath.Join(dir, f))
		}
	}

	var sysDirs []string
	switch runtime.GOOS {
	case "darwin":
		sysDirs = []string{"/usr/local/lib", "/opt/homebrew/lib"}
	case "linux":
		sysDirs = []string{"/usr/local/lib", "/usr/lib", "/usr/lib/x86_64-linux-gnu", "/usr/lib/aarch64-linux-gnu"}
	}
	for _, dir := range sysDirs {
		for _, f := range files {
			paths = append(paths, filepath.Join(dir, f))
		}
	}

	paths = append(paths, files...)
	return paths
}

// openLibrary dlopens the first loadable candidate for an FFmpeg library.
// RTLD_GLOBAL so that dependent libraries (libavcodec needs libavutil
// symbols) resolve against already-loaded ones.
func openLibrary(name string, major int) (uintptr, error) {
	var lastErr error
	for _, path := range libSearchPaths(name, major) {
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			return handle, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return 0, fmt.Errorf("failed to load lib%s: %w", name, lastErr)
	}
	return 0, fmt.Errorf("lib%s not found in any standard location", name)
}
