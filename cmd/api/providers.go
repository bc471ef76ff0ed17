package main

import (
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/library/internal/application/book"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/infrastructure/storage/cover"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/mq"
)

// infrastructureSet 数据库、Redis、封面目录
var infrastructureSet = wire.NewSet(
	mysql.NewDB,
	redis.NewClient,
	cover.NewStore,
	provideEventPublisher,
	wire.Bind(new(book.CoverStore), new(*cover.Store)),
)

// repositorySet 仓储和事务
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewTxManager,
	wire.Bind(new(appbook.TxManager), new(*mysql.TxManager)),
)

// cacheSet Redis会话、黑名单和图书缓存
var cacheSet = wire.NewSet(
	redis.NewSessionStore,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
	provideBookCache,
	wire.Bind(new(appbook.BookCache), new(*redis.BookCache)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideUserService,
	book.NewValidator,
	book.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	provideLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewGetCurrentUserUseCase,
	appuser.NewRefreshTokenUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewSearchBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewCountBooksUseCase,
	appbook.NewRandomBooksUseCase,
	appbook.NewLocationTreeUseCase,
	appbook.NewGetCoverUseCase,
)

// interfaceSet 中间件、处理器、路由
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewCoverHandler,
	router.New,
)

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideBookCache 图书缓存，Redis连续故障时熔断
func provideBookCache(client *goredis.Client, cfg *config.Config, log *zap.Logger) *redis.BookCache {
	breaker := redis.NewBreaker("book_cache", cfg.Redis.BreakerFailures, cfg.Redis.BreakerTimeout, log)
	return redis.NewBookCache(client, cfg.Redis.BookCacheTTL, breaker)
}

// provideEventPublisher 未启用事件时返回nil，用例跳过发布
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (appbook.EventPublisher, func(), error) {
	if !cfg.Events.Enabled {
		return nil, func() {}, nil
	}
	publisher, err := mq.NewPublisher(cfg.Events.URL, cfg.Events.Exchange, mq.ExchangeTopic, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			log.Warn("关闭事件发布者失败", zap.Error(err))
		}
	}
	return publisher, cleanup, nil
}

func provideUserService(repo user.Repository) user.Service {
	return user.NewService(repo)
}

// provideLoginUseCase 会话有效期与Refresh Token一致
func provideLoginUseCase(
	cfg *config.Config,
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore appuser.SessionStore,
	log *zap.Logger,
) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(userService, jwtManager, sessionStore, cfg.JWT.RefreshTokenExpire, log)
}
