//go:build wireinject
// +build wireinject

package di

import (
	"FinAssist/internal/usecase"
	"FinAssist/pkg/config"
	"FinAssist/pkg/server"

	"github.com/google/wire"
)

var coreSet = wire.NewSet(
	// Ambient
	ProvideLogger,
	ProvideMetrics,

	// Infrastructure clients
	ProvideCacheStore,
	ProvideSymbolSearcher,
	ProvideNewsSearcher,
	ProvideTextGenerator,

	// Services
	ProvideResolver,
	ProvideNewsAggregator,
	ProvidePipeline,
	ProvidePreferenceStore,

	// Use cases
	ProvideChatUseCase,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		coreSet,
		ProvideLimiter,
		ProvideAgentHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeChat wires the chat use case without the HTTP layer.
func InitializeChat(cfg *config.Config) (*usecase.ChatUseCase, func(), error) {
	wire.Build(coreSet)
	return nil, nil, nil
}
