// Package entity detects sensitive information in document text.
//
// The Scanner interface is the boundary the pipeline depends on: text in,
// spans out. Analyzer is the built-in implementation. It runs a set of
// Recognizers, each responsible for one entity kind, and merges their spans
// in text order.
//
// Recognizers are pattern based with an optional validation step (Luhn for
// card numbers, mod-97 for IBANs, address parsing for IPs), so scores are
// fixed per recognizer rather than model derived.
package entity
