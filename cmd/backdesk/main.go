// Command backdesk browses and edits back-office records over a REST
// backend.
package main

import "github.com/mesh-intelligence/backdesk/internal/cli"

func main() {
	cli.Execute()
}
