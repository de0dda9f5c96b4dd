package repositories

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"ideaswipe_server/models"
)

// DynamoIdeaDirectory reads ideas written by the idea service.
type DynamoIdeaDirectory struct {
	ds    *DynamoService
	table string
}

func (d *DynamoIdeaDirectory) GetIdea(ctx context.Context, ideaID string) (*models.Idea, error) {
	var idea models.Idea
	if err := d.ds.GetItem(ctx, d.table, stringKey("ideaId", ideaID), &idea); err != nil {
		return nil, err
	}
	return &idea, nil
}

// DynamoUserDirectory reads display profiles written by the profile service.
type DynamoUserDirectory struct {
	ds    *DynamoService
	table string
}

func (d *DynamoUserDirectory) GetProfiles(ctx context.Context, userIDs []string) (map[string]models.UserProfile, error) {
	seen := make(map[string]struct{}, len(userIDs))
	keys := make([]map[string]types.AttributeValue, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, stringKey("userId", id))
	}
	if len(keys) == 0 {
		return map[string]models.UserProfile{}, nil
	}

	items, err := d.ds.BatchGet(ctx, d.table, keys)
	if err != nil {
		return nil, err
	}

	out := make(map[string]models.UserProfile, len(items))
	for _, item := range items {
		p := profileFromItem(item)
		out[p.UserID] = p
	}
	return out, nil
}

// profileFromItem reads the few display fields this service needs. Older profile
// rows carry a photos list instead of avatarUrl.
func profileFromItem(item map[string]types.AttributeValue) models.UserProfile {
	p := models.UserProfile{
		UserID:    attrString(item, "userId"),
		Name:      attrString(item, "name"),
		AvatarURL: attrString(item, "avatarUrl"),
	}
	if p.AvatarURL == "" {
		if photos, ok := item["photos"].(*types.AttributeValueMemberL); ok && len(photos.Value) > 0 {
			if first, ok := photos.Value[0].(*types.AttributeValueMemberS); ok {
				p.AvatarURL = first.Value
			}
		}
	}
	return p
}

func attrString(item map[string]types.AttributeValue, field string) string {
	if v, ok := item[field].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
