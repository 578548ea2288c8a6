// Package saobei implements the Saobei (LCSW) aggregate-acquirer
// operations: mini-program and barcode payment, merchant-presented QR
// codes, order query, close and cancel, refunds and refund query. The wire
// format is JSON with an MD5 keyed digest over the sorted parameters.
package saobei
