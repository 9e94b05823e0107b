// Package clientip resolves the client address of an HTTP request from proxy
// headers or RemoteAddr and carries it through the request context into log
// records.
package clientip
