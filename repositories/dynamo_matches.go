package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"ideaswipe_server/models"
)

// Matches table: PK matchId. The id is derived from the canonical pair and idea,
// so the primary key doubles as the uniqueness constraint.
// GSIs userA-index (PK userA) and userB-index (PK userB).
var matchUserIndexes = map[string]string{
	"userA": "userA-index",
	"userB": "userB-index",
}

type DynamoMatchRepository struct {
	ds    *DynamoService
	table string
}

func (r *DynamoMatchRepository) InsertMatch(ctx context.Context, match *models.Match) error {
	return r.ds.PutIfAbsent(ctx, r.table, "matchId", match)
}

func (r *DynamoMatchRepository) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	var match models.Match
	if err := r.ds.GetItem(ctx, r.table, stringKey("matchId", matchID), &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *DynamoMatchRepository) ListMatchesByUser(ctx context.Context, userID string) ([]models.Match, error) {
	matches := []models.Match{}
	for attr, index := range matchUserIndexes {
		items, err := r.ds.QueryAll(ctx, &dynamodb.QueryInput{
			TableName:                aws.String(r.table),
			IndexName:                aws.String(index),
			KeyConditionExpression:   aws.String("#u = :user"),
			ExpressionAttributeNames: map[string]string{"#u": attr},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":user": &types.AttributeValueMemberS{Value: userID},
			},
		}, nil)
		if err != nil {
			return nil, err
		}
		var page []models.Match
		if err := attributevalue.UnmarshalListOfMaps(items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal matches: %w", err)
		}
		matches = append(matches, page...)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].MatchID < matches[j].MatchID
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (r *DynamoMatchRepository) UpdateReadFlag(ctx context.Context, matchID, attribute string, value bool) error {
	err := r.ds.UpdateItem(ctx, r.table, stringKey("matchId", matchID),
		"SET #flag = :v",
		"attribute_exists(matchId)",
		map[string]string{"#flag": attribute},
		map[string]types.AttributeValue{":v": &types.AttributeValueMemberBOOL{Value: value}},
		nil,
	)
	if errors.Is(err, ErrConditionFailed) {
		return ErrNotFound
	}
	return err
}
