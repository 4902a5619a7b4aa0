// Package fraud talks to the fraud scoring model served behind a KServe v2
// (Triton) compatible HTTP inference endpoint.
//
// [Client.Score] sends the shipping country index and the charge amount as
// two single-element tensors and returns the first value of the first output
// tensor. Every transport, status or decoding failure is reported as an error
// wrapping [ErrUnavailable] so callers can fail closed on it while letting
// unrelated errors through.
package fraud
