package util

import (
	"os/exec"
	"runtime"
)

// startCommand 启动外部命令，不等待其退出
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// browserCommand 各平台打开 URL 的首选命令
func browserCommand(goos, url string) []string {
	switch goos {
	case "windows":
		// rundll32 在 Windows 7 上比 cmd /c start 稳定
		return []string{"rundll32", "url.dll,FileProtocolHandler", url}
	case "darwin":
		return []string{"open", url}
	default:
		return []string{"xdg-open", url}
	}
}

// fallbackCommands 首选命令失败后依次尝试的命令
func fallbackCommands(goos, url string) [][]string {
	switch goos {
	case "windows":
		return [][]string{{"explorer", url}}
	case "linux":
		var cmds [][]string
		for _, browser := range []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"} {
			cmds = append(cmds, []string{browser, url})
		}
		return cmds
	default:
		return nil
	}
}

// OpenBrowser 打开默认浏览器
// 支持 Windows 7/10/11, macOS, Linux
func OpenBrowser(url string) error {
	cmd := browserCommand(runtime.GOOS, url)
	return startCommand(cmd[0], cmd[1:]...)
}

// OpenBrowserWithFallback 带降级方案的浏览器打开
// 如果主要方式失败，会尝试备选方式
func OpenBrowserWithFallback(url string) error {
	return openWithFallback(runtime.GOOS, url)
}

func openWithFallback(goos, url string) error {
	cmd := browserCommand(goos, url)
	err := startCommand(cmd[0], cmd[1:]...)
	if err == nil {
		return nil
	}

	for _, fb := range fallbackCommands(goos, url) {
		if startCommand(fb[0], fb[1:]...) == nil {
			return nil
		}
	}
	return err
}
