package queue

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/config"
	"github.com/Elemental-Earth-Data/mchs-gradesreport/internal/model"
)

// Producer pushes archive jobs onto the archive queue.
type Producer struct {
	client *redis.Client
	queue  string
}

func NewProducer(client *redis.Client, cfg *config.Config) *Producer {
	return &Producer{
		client: client,
		queue:  cfg.Archive.Queue,
	}
}

func (p *Producer) EnqueueArchive(ctx context.Context, job model.ArchiveJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return p.client.LPush(ctx, p.queue, data).Err()
}
