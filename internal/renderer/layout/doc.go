// Package layout computes screen regions for the dashboard and prepares log
// lines for display in a fixed number of columns.
package layout
