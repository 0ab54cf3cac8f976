// Package session persists the authenticated session across launches.
//
// The Manager splits a domain.Session over the storage facade: the token
// goes to the encrypted namespace, username and admin flag to the plain
// one. There is no transaction across the two, so reads are all-or-nothing:
// a session with any field missing reads as absent.
package session
