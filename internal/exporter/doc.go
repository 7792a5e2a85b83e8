// Package exporter persists region series as CSV files and Excel
// workbooks for offline analysis.
package exporter
