//go:build !windows

package locator

// Windows PowerShell does not exist here, so both editions map to pwsh.
const platformEdition = EditionCore

var platformFallback func(func(string) (string, bool), func(string) bool) (string, bool)

func executableName(Edition) string {
	return "pwsh"
}
