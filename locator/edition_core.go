//go:build pwshcore

package locator

// DefaultEdition is the edition used when none is configured explicitly.
const DefaultEdition = EditionCore
