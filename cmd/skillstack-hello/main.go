package main

import (
	"github.com/sokinpui/skillstack/internal/ui"
)

func main() {
	ui.Info("Hello from the Skillstack CLI!")
}
