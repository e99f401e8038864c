// Package model defines the values passed between the bootstrap, download and
// app packages: the invocation request, the binary set, the produced artifact
// and the error taxonomy. All of them live for a single run.
package model
