// simpletok builds the vocabulary of a plain-text corpus and encodes/decodes text with it.
package main

import (
	"github.com/gomlx/simpletok/cmd/simpletok/cmd"
)

func main() {
	cmd.Execute()
}
