package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/shelterseek/goapi/base/ctx"
	"github.com/shelterseek/goapi/base/database/mongoclient"
	hcdomain "github.com/shelterseek/goapi/domain/healthcheck"
	"github.com/shelterseek/goapi/domain/keys"
	"github.com/shelterseek/goapi/service/redis"
)

type impl struct {
	mgoClient          *mongoclient.Client
	mgoPublishedClient *mongoclient.Client
	redisCache         redis.Service
}

// New creates new healthCheckRepo probing every provisioned store handle
func New(
	mgoClient *mongoclient.Client,
	mgoPublishedClient *mongoclient.Client,
	redisCache redis.Service,
) hcdomain.HealthCheckRepo {
	return &impl{
		mgoClient:          mgoClient,
		mgoPublishedClient: mgoPublishedClient,
		redisCache:         redisCache,
	}
}

func (im *impl) PingDB(context ctx.Ctx) error {
	ctx, cancel := ctx.WithTimeout(context, 2*time.Second)
	defer cancel()
	if err := im.mgoClient.Ping(ctx, readpref.Primary()); err != nil {
		context.WithField("err", err).Error("ping primary mongo error")
		return err
	}

	if err := im.mgoPublishedClient.Ping(ctx, readpref.Primary()); err != nil {
		context.WithField("err", err).Error("ping published mongo error")
		return err
	}

	if err := im.redisCache.Set(ctx, keys.RedisKey(keys.PfxHealthCheck, "testset"), []byte("1"), 30*time.Second); err != nil {
		context.WithField("err", err).Error("test redis set failed")
		return err
	}
	return nil
}
