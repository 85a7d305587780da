// Command redirect-multimedia answers legacy multimedia links with a 301 to
// the slug-based multimedia page.
package main

import "authorsite/internal/redirect"

func main() {
	redirect.StartFunction(redirect.Multimedia)
}
