// Package types defines the domain model shared by the fabric control
// plane: compute nodes, the AI agents deployed onto them, and the
// commands issued between them. It has no dependencies on the rest of
// the module so every other package can import it freely.
package types
