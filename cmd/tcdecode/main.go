package main

import (
	xwax "github.com/2xAA/xwax/src"
)

func main() {
	xwax.TcdecodeMain()
}
