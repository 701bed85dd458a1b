package memory

import (
	"sync"

	"go.uber.org/zap"
	"notifyd/internal/model"
)

type Store struct {
	mu          sync.Mutex
	records     []model.Notification
	index       map[string]int
	preferences map[string]model.Preference
	log         *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{
		index:       make(map[string]int),
		preferences: make(map[string]model.Preference),
		log:         logger,
	}
}
