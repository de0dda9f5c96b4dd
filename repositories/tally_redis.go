package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"ideaswipe_server/models"
)

// RedisTallyCounter keeps like/pass counters in one hash per idea:
// <prefix>:tally:<ideaId> -> {like: n, pass: n}
type RedisTallyCounter struct {
	client *redis.Client
	prefix string
}

func NewRedisTallyCounter(client *redis.Client, prefix string) *RedisTallyCounter {
	return &RedisTallyCounter{client: client, prefix: prefix}
}

func (c *RedisTallyCounter) key(ideaID string) string {
	return fmt.Sprintf("%s:tally:%s", c.prefix, ideaID)
}

func tallyField(direction string) string {
	if direction == models.DirectionRight {
		return "like"
	}
	return "pass"
}

func (c *RedisTallyCounter) Increment(ctx context.Context, ideaID, direction string) error {
	if err := c.client.HIncrBy(ctx, c.key(ideaID), tallyField(direction), 1).Err(); err != nil {
		return fmt.Errorf("failed to increment tally for idea %s: %w", ideaID, err)
	}
	return nil
}

func (c *RedisTallyCounter) Get(ctx context.Context, ideaID string) (models.IdeaTally, error) {
	tally := models.IdeaTally{IdeaID: ideaID}
	values, err := c.client.HGetAll(ctx, c.key(ideaID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return tally, fmt.Errorf("failed to read tally for idea %s: %w", ideaID, err)
	}
	tally.Likes, _ = strconv.ParseInt(values["like"], 10, 64)
	tally.Passes, _ = strconv.ParseInt(values["pass"], 10, 64)
	return tally, nil
}
