// Package testutil contains helper builders and utilities used across tests
// to reduce boilerplate when constructing report data (fingerprints,
// payloads) and hosts that record exits instead of terminating the test
// binary. They are not intended for production usage.
package testutil
