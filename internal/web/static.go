// Package web embeds the fixed documents served by the public endpoints:
// the landing page, the decoy page a target reaches after clicking a tracked
// link, and the error page. The documents are compiled into the binary so the
// service has no runtime file dependencies.
package web

import _ "embed"

// Landing is the document served at GET /.
//
//go:embed landing.html
var Landing []byte

// Decoy is the document served at GET /phishing-link, the page a target
// lands on after a tracked click.
//
//go:embed decoy.html
var Decoy []byte

// NotFound is the document served at GET /error-404.
//
//go:embed error.html
var NotFound []byte
