package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// copyToClipboardFn and openURLFn are the active implementations for clipboard
// and browser operations. Tests replace them via StubPlatformActions.
var (
	copyToClipboardFn = clipboard.WriteAll
	openURLFn         = openURLImpl
)

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error { return copyToClipboardFn(text) }

// OpenURL opens a URL in the default browser.
func OpenURL(url string) error { return openURLFn(url) }

// StubPlatformActions replaces clipboard and browser functions with no-ops
// and returns a restore function.
func StubPlatformActions() (restore func()) {
	noop := func(string) error { return nil }
	return SetPlatformActions(noop, noop)
}

// SetPlatformActions installs clipboard and browser implementations and
// returns a function restoring the previous ones. Nil keeps the current one.
func SetPlatformActions(copyFn, openFn func(string) error) (restore func()) {
	origCopy := copyToClipboardFn
	origOpen := openURLFn
	if copyFn != nil {
		copyToClipboardFn = copyFn
	}
	if openFn != nil {
		openURLFn = openFn
	}
	return func() {
		copyToClipboardFn = origCopy
		openURLFn = origOpen
	}
}

// openURLImpl uses a detached context since the browser outlives the viewer.
func openURLImpl(url string) error {
	ctx := context.Background()

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "linux":
		if _, err := exec.LookPath("xdg-open"); err != nil {
			return fmt.Errorf("xdg-open not found (install xdg-utils)")
		}
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
