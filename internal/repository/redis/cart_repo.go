package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DRSN-tech/cart-backend/internal/cfg"
	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/DRSN-tech/cart-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/cart-backend/pkg/clients"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// saveIfNewer пишет снимок, только если в Redis нет снимка с большей версией.
// KEYS[1]: ключ корзины. ARGV: JSON, версия, TTL в мс.
var saveIfNewer = r.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
	local ok, doc = pcall(cjson.decode, cur)
	if ok and type(doc) == 'table' and tonumber(doc['version']) and tonumber(doc['version']) > tonumber(ARGV[2]) then
		return 0
	end
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// CartRepo хранит снимки сессионных корзин в Redis.
type CartRepo struct {
	client *clients.RedisClient
	conv   converter.CartConverter
	cfg    *cfg.RedisCfg
}

func NewCartRepo(client *clients.RedisClient, conv converter.CartConverter, cfg *cfg.RedisCfg) *CartRepo {
	return &CartRepo{client: client, conv: conv, cfg: cfg}
}

// Load возвращает сохранённый снимок или nil, если сессии нет.
func (c *CartRepo) Load(ctx context.Context, sessionID string) (*domain.CartSnapshot, error) {
	data, err := c.client.Client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.CartRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), &domain.SnapshotError{Version: storedVersion(data), Err: err})
	}

	snapshot, err := c.conv.ToSnapshot(&model)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), &domain.SnapshotError{Version: model.Version, Err: err})
	}

	return snapshot, nil
}

// Save сохраняет снимок с CartTTL. Если в Redis лежит более новая версия,
// запись не выполняется и возвращается e.ErrStaleSnapshot.
func (c *CartRepo) Save(ctx context.Context, snapshot domain.CartSnapshot) error {
	data, err := json.Marshal(c.conv.ToRedisModel(&snapshot))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	saved, err := saveIfNewer.Run(ctx, c.client.Client,
		[]string{cartKey(snapshot.SessionID)},
		data, snapshot.Version, c.cfg.CartTTL.Milliseconds(),
	).Int()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if saved == 0 {
		return e.Wrap(fmt.Sprintf("session %s v%d", snapshot.SessionID, snapshot.Version), e.ErrStaleSnapshot)
	}

	return nil
}

// storedVersion достаёт версию из снимка, который не разбирается целиком.
func storedVersion(data []byte) int64 {
	var head struct {
		Version int64 `json:"version"`
	}
	_ = json.Unmarshal(data, &head)
	return head.Version
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}
