package main

import (
	"resort/config"
	"resort/di"
	_ "resort/docs"
	"resort/shared/logger"
)

// @title Resort Booking API
// @version 1.0
// @description Hotel resort booking platform API.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
