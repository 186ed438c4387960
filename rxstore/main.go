// Command rxstore runs the developer store against the in-memory backend.
package main

import "github.com/sarchlab/rxstore/rxstore/cmd"

func main() {
	cmd.Execute()
}
