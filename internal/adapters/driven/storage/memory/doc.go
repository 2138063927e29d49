// Package memory provides in-memory implementations of driven ports.
// They keep the same semantics as the sqlite adapters and back service tests.
package memory
