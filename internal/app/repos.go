package app

import (
	"github.com/yungbote/sca-inventory-backend/internal/data/repos"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

type Repos struct {
	User       repos.UserRepo
	Session    repos.SessionRepo
	Product    repos.ProductRepo
	Batch      repos.BatchRepo
	Movement   repos.MovementRepo
	DigestMark repos.DigestMarkRepo
}

func wireRepos(log *logger.Logger, cfg Config, clients Clients) Repos {
	log.Info("Wiring repos...")
	r := Repos{
		User:       repos.NewUserRepo(clients.DB, log),
		Session:    repos.NewSessionRepo(clients.DB, log),
		Product:    repos.NewProductRepo(clients.DB, log),
		Batch:      repos.NewBatchRepo(clients.DB, log),
		Movement:   repos.NewMovementRepo(clients.DB, log),
		DigestMark: repos.NewDigestMarkRepo(clients.DB, log),
	}
	if cfg.SessionStore == SessionStoreRedis && clients.Redis != nil {
		r.Session = repos.NewRedisSessionRepo(clients.Redis, log)
	}
	if clients.Redis != nil {
		r.DigestMark = repos.NewRedisDigestMarkRepo(clients.Redis, log)
	}
	if cfg.ProductStore == ProductStoreSupabase && clients.Supabase != nil {
		r.Product = repos.NewSupabaseProductRepo(clients.Supabase, log)
	}
	return r
}
