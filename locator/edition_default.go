//go:build !pwshcore

package locator

// DefaultEdition is the edition used when none is configured explicitly.
// Build with -tags pwshcore to prefer PowerShell Core on Windows.
const DefaultEdition = platformEdition
