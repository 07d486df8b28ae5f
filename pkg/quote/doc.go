// Package quote ships the insurance data-collection scenarios: the
// vehicle and health question graphs, and the typed records their
// completed answer sets decode into for downstream pricing.
package quote
