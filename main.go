package main

import (
	"embed"
	"os"

	"chatterbox/internal/config"
	"chatterbox/internal/database"
	"chatterbox/internal/logx"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal(err, "failed to load config")
	}
	logx.InitGlobalLogger(cfg.IsDevelopment())

	launchURL := cfg.LaunchURL
	if launchURL == "" && len(os.Args) > 1 {
		launchURL = os.Args[1]
	}
	launch, err := config.ParseLaunchParams(launchURL)
	if err != nil {
		// A bad launch URL degrades to a standalone session.
		logx.Error(err, "ignoring launch url", "url", launchURL)
		launch = config.LaunchParams{}
	}

	var db *gorm.DB
	if cfg.StoreBackend == config.StoreBackendSQLite {
		logLevel := logger.Warn
		if database.IsDevelopment() && cfg.IsDevelopment() {
			logLevel = logger.Info
		}
		db, err = database.Init(database.Config{
			Path:     cfg.DBPath,
			LogLevel: logLevel,
		})
		if err != nil {
			logx.Fatal(err, "failed to open database")
		}
	}

	app := NewApp(cfg, launch, db)

	// Create application with options
	err = wails.Run(&options.App{
		Title:  "Chatterbox",
		Width:  1024,
		Height: 768,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "Chatterbox",
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
	})

	if err != nil {
		logx.Error(err, "wails exited with error")
	}
}
