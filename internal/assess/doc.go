// Package assess drives the batch review loop: for every row in a clamped
// index range it builds a criteria prompt, asks the classifier for a
// decision, and appends the decision to the output table. Individual row
// failures become "uncertain" decisions; only unreadable inputs, unwritable
// outputs, and missing credentials abort a run.
package assess
