package main

import (
	"github.com/dasdy/bankingai/cmd/bankingai"
)

func main() {
	// Logging is configured by the root command once --verbose is parsed.
	bankingai.Execute()
}
