package main

import (
	"go-paie/internal/app"
	"go-paie/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunScheduler(); err != nil {
		logger.Fatal("run scheduler failed", zap.Error(err))
	}
}
