package main

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
)

const version = "1.0.0"

func main() {
	Execute()
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("ASSESSLY", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("ASSESSLY ADMIN API (v%s)\n\n", version)
}
