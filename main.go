package main

import (
	"github.com/mj1618/desktop-locate/cmd"
	_ "github.com/mj1618/desktop-locate/internal/platform/desktop"
)

func main() {
	cmd.Execute()
}
