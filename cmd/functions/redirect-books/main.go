// Command redirect-books answers legacy /books?id= links with a 301 to the
// slug-based book page.
package main

import "authorsite/internal/redirect"

func main() {
	redirect.StartFunction(redirect.Books)
}
