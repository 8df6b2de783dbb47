// Package connectors provides implementations of the Connector interface
// for document sources. Each connector knows how to enumerate raw documents
// from one kind of source; the filesystem connector reads a local folder.
package connectors
