// The patentctl command is the CLI front end for the patent-intelligence API.
package main

import "github.com/dmhernandez2525/patent-intelligence/internal/interfaces/cli"

func main() {
	cli.Execute()
}
