package main

import (
	"github.com/joho/godotenv"

	"github.com/kirillkom/premium-predictor/internal/cli"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
