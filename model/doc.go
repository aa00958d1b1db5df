// Package model defines the core value types shared by sparsetag packages.
//
// # Confidence
//
// Confidence is the ordinal label stored per (row, column) cell:
//
//	None   = 0  implicit, never stored
//	Low    = 1
//	Medium = 2
//	High   = 3
//
// Only Low, Medium and High occupy storage. A cell that carries no label is
// simply absent from the compressed representation.
package model
