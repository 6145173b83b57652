package valuation

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"card_tradein/internal/domain/entity"
	"card_tradein/internal/domain/value"
)

// settingsTTL — сколько живут настройки вилок в памяти процесса.
const settingsTTL = 5 * time.Minute

type BracketRepository interface {
	ListByGame(ctx context.Context, game value.Game) ([]entity.BracketSetting, error)
}

// SettingsCache прикрывает репозиторий настроек от повторных чтений:
// админка меняет вилки редко, а расчёты идут на каждый скан карты.
// Протухание ленивое, фонового вытеснения нет (cleanupInterval = 0).
// Два конкурентных промаха по одной игре дадут два чтения БД — это
// осознанно: чтения идемпотентны и сойдутся к одному значению.
type SettingsCache struct {
	repo  BracketRepository
	items *gocache.Cache
}

func NewSettingsCache(repo BracketRepository) *SettingsCache {
	return &SettingsCache{
		repo:  repo,
		items: gocache.New(settingsTTL, 0),
	}
}

// Get возвращает настройки игры из кэша либо читает их из хранилища.
// Пустой список тоже кэшируется: отсутствие настроек — валидный ответ.
// Ошибка хранилища наружу отдаётся как есть, кэш её не глотает.
func (c *SettingsCache) Get(ctx context.Context, game value.Game) ([]entity.BracketSetting, error) {
	key := cacheKey(game)

	if cached, found := c.items.Get(key); found {
		return cached.([]entity.BracketSetting), nil
	}

	settings, err := c.repo.ListByGame(ctx, game)
	if err != nil {
		return nil, err
	}

	c.items.Set(key, settings, gocache.DefaultExpiration)

	return settings, nil
}

// Clear сбрасывает кэш одной игры.
func (c *SettingsCache) Clear(game value.Game) {
	c.items.Delete(cacheKey(game))
}

// ClearAll сбрасывает кэш целиком.
func (c *SettingsCache) ClearAll() {
	c.items.Flush()
}

func cacheKey(game value.Game) string {
	return strings.ToLower(game.String())
}
