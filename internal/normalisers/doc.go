// Package normalisers provides implementations of the Normaliser interface
// for the supported document formats, and the registry that dispatches raw
// documents to them by MIME type.
//
// Normalisers are registered with the Registry at startup via RegisterDefaults.
package normalisers
