package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"
	"github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/base/database/mongoclient"
	"github.com/shelterseek/goapi/base/database/redisclient"
	"github.com/shelterseek/goapi/base/log"
	"github.com/shelterseek/goapi/base/metrics"
	bValidator "github.com/shelterseek/goapi/base/validator"
	mmiddleware "github.com/shelterseek/goapi/middleware"
	"github.com/shelterseek/goapi/service/query"
	"github.com/shelterseek/goapi/service/redis"
	asset_delivery "github.com/shelterseek/goapi/stores/asset/delivery/http"
	asset_repository "github.com/shelterseek/goapi/stores/asset/repository"
	asset_usecase "github.com/shelterseek/goapi/stores/asset/usecase"
	hc_delivery "github.com/shelterseek/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/shelterseek/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/shelterseek/goapi/stores/healthcheck/usecase"
	listing_delivery "github.com/shelterseek/goapi/stores/listing/delivery/http"
	listing_repository "github.com/shelterseek/goapi/stores/listing/repository"
	listing_usecase "github.com/shelterseek/goapi/stores/listing/usecase"
	publication_delivery "github.com/shelterseek/goapi/stores/publication/delivery/http"
	publication_repository "github.com/shelterseek/goapi/stores/publication/repository"
	publication_usecase "github.com/shelterseek/goapi/stores/publication/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init primary mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init published mongo client, independently provisioned from the primary
	context.Info("init published mongo")
	pubUri := viper.GetString("mongoPublished.uri")
	pubAuthDBName := viper.GetString("mongoPublished.authDBName")
	pubDbName := viper.GetString("mongoPublished.dbName")
	pubEnableSSL := viper.GetBool("mongoPublished.enableSSL")
	mongoPublishedClient := mongoclient.MustConnectMongoClient(pubUri, pubAuthDBName, pubDbName, pubEnableSSL, true, 2)
	qPublished := query.New(mongoPublishedClient, checkIndex)

	// init Redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
		Src: redisCachePool,
	})

	mmiddleware.SetupCache(redisCache)

	// init cloud storage for image blobs
	context.Info("init cloud storage")
	storageClient, err := storage.NewClient(context)
	if err != nil {
		context.WithField("err", err).Panic("storage.NewClient failed")
	}

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, mongoPublishedClient, redisCache)
	listingRepo := listing_repository.New(q)
	publishedRepo := publication_repository.New(qPublished)
	assetRepo := asset_repository.NewCloudStorage(&asset_repository.CloudStorageRepoCfg{
		Client:     storageClient,
		BucketName: viper.GetString("storage.bucket"),
		Timeout:    viper.GetDuration("storage.timeout"),
	})

	hc := hc_usecase.New(hcRepo)
	assetUC := asset_usecase.New(&asset_usecase.AssetUseCaseCfg{
		AssetRepo: assetRepo,
		RefLister: listingRepo,
	})
	replicator := publication_usecase.NewReplicator(&publication_usecase.ReplicatorCfg{
		ListingRepo:   listingRepo,
		PublishedRepo: publishedRepo,
	})
	publishedUC := publication_usecase.NewPublished(publishedRepo)
	listingUC := listing_usecase.New(&listing_usecase.ListingUseCaseCfg{
		ListingRepo: listingRepo,
		AssetUC:     assetUC,
		Replicator:  replicator,
	})

	hc_delivery.New(e, hc)
	listing_delivery.New(e, middL, listingUC)
	publication_delivery.New(e, publishedUC)
	asset_delivery.New(e, assetUC)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
