package repositories

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"ideaswipe_server/models"
)

// Swipes table: PK userId, SK ideaId.
// IdeaLikes table: PK ideaId, SK sortKey (createdAt#userId). It holds a copy of every
// right swipe so partner lookups can use a strongly consistent read, which a GSI
// cannot offer.
type DynamoSwipeRepository struct {
	ds         *DynamoService
	table      string
	likesTable string
}

// InsertSwipe relies on the (userId, ideaId) primary key for idempotency. A right
// swipe and its IdeaLikes row commit together.
func (r *DynamoSwipeRepository) InsertSwipe(ctx context.Context, swipe *models.Swipe) error {
	marshaled, err := attributevalue.MarshalMap(swipe)
	if err != nil {
		return fmt.Errorf("failed to marshal swipe: %w", err)
	}
	put := &types.Put{
		TableName:           aws.String(r.table),
		Item:                marshaled,
		ConditionExpression: aws.String("attribute_not_exists(userId) AND attribute_not_exists(ideaId)"),
	}

	if swipe.Direction == models.DirectionRight {
		_, err = r.ds.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: []types.TransactWriteItem{
				{Put: put},
				{Put: &types.Put{TableName: aws.String(r.likesTable), Item: marshaled}},
			},
		})
	} else {
		_, err = r.ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           put.TableName,
			Item:                put.Item,
			ConditionExpression: put.ConditionExpression,
		})
	}
	if err != nil {
		if isConditionalFailure(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert swipe: %w", err)
	}
	return nil
}

func (r *DynamoSwipeRepository) FirstRightSwipe(ctx context.Context, ideaID, excludeUserID string) (*models.Swipe, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.likesTable),
		KeyConditionExpression: aws.String("ideaId = :idea"),
		FilterExpression:       aws.String("userId <> :me"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":idea": &types.AttributeValueMemberS{Value: ideaID},
			":me":   &types.AttributeValueMemberS{Value: excludeUserID},
		},
		ConsistentRead:   aws.Bool(true),
		ScanIndexForward: aws.Bool(true),
	}

	items, err := r.ds.QueryAll(ctx, input, func(items []map[string]types.AttributeValue) bool {
		return len(items) > 0
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	var swipe models.Swipe
	if err := attributevalue.UnmarshalMap(items[0], &swipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal swipe: %w", err)
	}
	return &swipe, nil
}

func (r *DynamoSwipeRepository) ListSwipesByUser(ctx context.Context, userID string) ([]models.Swipe, error) {
	items, err := r.ds.QueryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("userId = :user"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":user": &types.AttributeValueMemberS{Value: userID},
		},
	}, nil)
	if err != nil {
		return nil, err
	}

	swipes := []models.Swipe{}
	if err := attributevalue.UnmarshalListOfMaps(items, &swipes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal swipes: %w", err)
	}
	return swipes, nil
}
