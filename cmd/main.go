package main

import (
	"github.com/gmarket/export-svc/internal/app"
	"github.com/gmarket/export-svc/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
