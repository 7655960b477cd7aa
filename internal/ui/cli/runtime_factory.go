package cli

import (
	"fmt"

	coreapp "smartlib/internal/core/app"
	"smartlib/internal/core/config"
)

type appFactory interface {
	New(cfg *config.Config) (*coreapp.App, error)
}

type coreAppFactory struct {
	opts []coreapp.Option
}

func (f coreAppFactory) New(cfg *config.Config) (*coreapp.App, error) {
	return coreapp.New(cfg, f.opts...)
}

func initializeApp(cfg *config.Config, factory appFactory) (*coreapp.App, error) {
	if factory == nil {
		return nil, fmt.Errorf("app factory is required")
	}
	return factory.New(cfg)
}
