// Package tlsroots builds the trust roots used by the network client.
//
// The system pool is the base; a configured CA bundle (a PEM file or a
// directory of .pem/.crt/.cer files) is added on top so the client can
// reach a staging backend signed by a private CA.
package tlsroots
