//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// Provider集合定义在 providers.go，修改后运行 `wire gen ./cmd/api` 重新生成 wire_gen.go

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// InitializeApp 组装整个应用，返回HTTP引擎和资源清理函数
func InitializeApp(cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		cacheSet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
