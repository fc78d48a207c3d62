// Package mocks provides configurable test doubles for the store and
// service interfaces. Each mock exposes Fn fields to override behavior per
// test; unset methods fall back to the mock's default response fields.
package mocks
