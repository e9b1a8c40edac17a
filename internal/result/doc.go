// Package result turns database/sql query results into rows.
//
// A Metadata is built once per result from the column names and declared
// types. It owns the key index, picks a processor for each column from a
// processors.Registry and answers the owner hooks rows call for fallback
// lookups, ambiguous keys and deprecated access. Result scans each driver
// row into raw values and builds a row.Row against that shared Metadata.
package result
