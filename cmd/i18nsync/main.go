package main

import (
	"os"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
