package app

import (
	"github.com/mbolis/tichi-survey/config"
	"github.com/mbolis/tichi-survey/database"
	"github.com/mbolis/tichi-survey/intake"
)

type App struct {
	database.Store
	*intake.Service
	config.Config
}

func New(store database.Store, cfg config.Config) App {
	return App{
		Store:   store,
		Service: intake.NewService(store),
		Config:  cfg,
	}
}
