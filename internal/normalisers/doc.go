// Package normalisers extracts plain text from supported document formats.
// Each normaliser handles one domain.Format; the Registry resolves a path's
// format from its extension and dispatches to the matching normaliser.
//
// Normalisers are registered with the Registry at startup.
package normalisers
