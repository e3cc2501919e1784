package repos

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/sca-inventory-backend/internal/data/repos/auth"
	"github.com/yungbote/sca-inventory-backend/internal/data/repos/inventory"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
	"github.com/yungbote/sca-inventory-backend/internal/platform/supabase"
)

type UserRepo = auth.UserRepo
type SessionRepo = auth.SessionRepo

type ProductRepo = inventory.ProductRepo
type BatchRepo = inventory.BatchRepo
type MovementRepo = inventory.MovementRepo
type MovementFilter = inventory.MovementFilter
type DigestMarkRepo = inventory.DigestMarkRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return auth.NewUserRepo(db, baseLog) }
func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return auth.NewSessionRepo(db, baseLog)
}
func NewRedisSessionRepo(rdb redis.UniversalClient, baseLog *logger.Logger) SessionRepo {
	return auth.NewRedisSessionRepo(rdb, baseLog)
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return inventory.NewProductRepo(db, baseLog)
}
func NewSupabaseProductRepo(client *supabase.Client, baseLog *logger.Logger) ProductRepo {
	return inventory.NewSupabaseProductRepo(client, baseLog)
}
func NewBatchRepo(db *gorm.DB, baseLog *logger.Logger) BatchRepo {
	return inventory.NewBatchRepo(db, baseLog)
}
func NewMovementRepo(db *gorm.DB, baseLog *logger.Logger) MovementRepo {
	return inventory.NewMovementRepo(db, baseLog)
}
func NewDigestMarkRepo(db *gorm.DB, baseLog *logger.Logger) DigestMarkRepo {
	return inventory.NewDigestMarkRepo(db, baseLog)
}
func NewRedisDigestMarkRepo(rdb redis.UniversalClient, baseLog *logger.Logger) DigestMarkRepo {
	return inventory.NewRedisDigestMarkRepo(rdb, baseLog)
}
