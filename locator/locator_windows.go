//go:build windows

package locator

// platformEdition is used when the pwshcore build tag is not set.
const platformEdition = EditionDesktop

var platformFallback = systemRootFallback

func executableName(e Edition) string {
	if e == EditionCore {
		return "pwsh.exe"
	}
	return "powershell.exe"
}
