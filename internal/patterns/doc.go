// Package patterns holds the anomaly classification rules: the built-in rule
// table, user-supplied custom rules, and the compiled combined matcher that
// classifies a line in a single pass. Mutations go through the Registry;
// scanning code only ever sees immutable Set snapshots.
package patterns
