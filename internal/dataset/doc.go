// Package dataset reads and writes the flat CSV tables that flow through a
// review run. Tables are immutable once read; output writers append one
// decision record at a time and flush after every write so a crash loses at
// most the in-flight row.
package dataset
