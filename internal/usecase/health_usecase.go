package usecase

import (
	"context"

	"go-talent-marketplace/pkg/redis"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	db *pgxpool.Pool
}

func NewHealthUsecase(db *pgxpool.Pool) HealthUsecase {
	return &healthUsecase{db: db}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	result := map[string]string{
		"status":   "ok",
		"database": "ok",
		"redis":    "ok",
	}
	if u.db != nil {
		if err := u.db.Ping(ctx); err != nil {
			result["status"] = "degraded"
			result["database"] = "unreachable"
		}
	}
	if err := redis.HealthCheck(ctx); err != nil {
		result["redis"] = "unavailable"
	}
	return result
}
