package application

import (
	"go.uber.org/zap"

	"github.com/iskra-app/backend/internal/directory"
	"github.com/iskra-app/backend/internal/repository"
	"github.com/iskra-app/backend/internal/tx"
)

// Broadcaster is the live fan-out capability injected into the service.
// Delivery is best-effort and never transactional with persistence.
type Broadcaster interface {
	Broadcast(room string, payload []byte)
}

// NopBroadcaster discards every broadcast. Used when the process runs
// without a live gateway (batch tooling, tests).
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(string, []byte) {}

type Service struct {
	repo  repository.Repository
	tx    tx.Transactor
	dir   directory.Directory
	bcast Broadcaster
	log   *zap.Logger
}

func New(
	repo repository.Repository,
	transactor tx.Transactor,
	dir directory.Directory,
	bcast Broadcaster,
	log *zap.Logger,
) *Service {
	if bcast == nil {
		bcast = NopBroadcaster{}
	}
	return &Service{repo: repo, tx: transactor, dir: dir, bcast: bcast, log: log}
}
