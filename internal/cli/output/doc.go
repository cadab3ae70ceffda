// Package output renders printlink-cli results.
//
// Results can be printed as an aligned table (the default), JSON or YAML.
// Table columns come from `table` struct tags; columns tagged "wide" only
// appear with --wide.
package output
