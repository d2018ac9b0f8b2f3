package providers

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dotsetgreg/leadpilot/pkg/config"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
)

type providerFactory struct {
	build    func(cfg *config.Config) (LLMProvider, error)
	validate func(cfg *config.Config) error
}

var (
	factoryMu       sync.RWMutex
	factories       = map[string]providerFactory{}
	registrationErr error
)

func RegisterFactory(name string, build func(cfg *config.Config) (LLMProvider, error), validate func(cfg *config.Config) error) {
	name = NormalizeProviderName(name)
	factoryMu.Lock()
	defer factoryMu.Unlock()
	if name == "" {
		registrationErr = errors.Join(registrationErr, fmt.Errorf("providers: factory name is required"))
		return
	}
	if build == nil {
		registrationErr = errors.Join(registrationErr, fmt.Errorf("providers: factory build func is required"))
		return
	}
	factories[name] = providerFactory{build: build, validate: validate}
}

func SupportedProviders() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func NormalizeProviderName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

// CreateProvider builds the LLM provider named by the pipeline config.
func CreateProvider(cfg *config.Config) (LLMProvider, error) {
	factoryMu.RLock()
	regErr := registrationErr
	factory, ok := factories[NormalizeProviderName(cfg.Pipeline.Provider)]
	factoryMu.RUnlock()

	if regErr != nil {
		return nil, regErr
	}
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (supported: %s)", cfg.Pipeline.Provider, strings.Join(SupportedProviders(), ", "))
	}
	if factory.validate != nil {
		if err := factory.validate(cfg); err != nil {
			return nil, err
		}
	}
	return factory.build(cfg)
}

// ValidateCredentials checks the configured provider without building it.
func ValidateCredentials(cfg *config.Config) error {
	factoryMu.RLock()
	factory, ok := factories[NormalizeProviderName(cfg.Pipeline.Provider)]
	factoryMu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown provider %q", cfg.Pipeline.Provider)
	}
	if factory.validate == nil {
		return nil
	}
	return factory.validate(cfg)
}
