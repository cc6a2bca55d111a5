package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/avstrong/wandernest/internal/app"
	"github.com/avstrong/wandernest/internal/logger"
)

func main() {
	l := logger.New(log.Default())

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		l.LogWarnf("Could not read .env: %v", err.Error())
	}

	var exitCode int

	if err := app.Run(l); err != nil {
		l.LogErrorf("Failed to run app: %v", err.Error())

		exitCode = 1
	}

	os.Exit(exitCode)
}
