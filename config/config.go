package config

import (
	"comptroller/core"

	"github.com/asaskevich/govalidator"
	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file, env vars prefixed with COMPTROLLER override it
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("COMPTROLLER")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	defaultApp(&config.App)
	if _, err := govalidator.ValidateStruct(config); err != nil {
		return err
	}

	return nil
}

func defaultApp(app *core.App) {
	if app.Store == "" {
		app.Store = core.StoreMemory
	}

	if app.Location == "" {
		app.Location = "UTC"
	}
}
