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

// Messages table: PK matchId, SK sortKey (createdAt#messageId).
// GSI messageId-index: PK messageId.
const messagesByIDIndex = "messageId-index"

type DynamoMessageRepository struct {
	ds    *DynamoService
	table string
}

func (r *DynamoMessageRepository) InsertMessage(ctx context.Context, msg *models.Message) error {
	return r.ds.PutItem(ctx, r.table, msg)
}

func (r *DynamoMessageRepository) GetMessage(ctx context.Context, messageID string) (*models.Message, error) {
	items, err := r.ds.QueryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		IndexName:              aws.String(messagesByIDIndex),
		KeyConditionExpression: aws.String("messageId = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: messageID},
		},
	}, func(items []map[string]types.AttributeValue) bool { return len(items) > 0 })
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}

	var msg models.Message
	if err := attributevalue.UnmarshalMap(items[0], &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &msg, nil
}

func (r *DynamoMessageRepository) ListMessages(ctx context.Context, matchID string, limit int) ([]models.Message, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("matchId = :match"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":match": &types.AttributeValueMemberS{Value: matchID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(int32(limit)),
	}
	items, err := r.ds.QueryAll(ctx, input, func(items []map[string]types.AttributeValue) bool {
		return len(items) >= limit
	})
	if err != nil {
		return nil, err
	}
	if len(items) > limit {
		items = items[:limit]
	}

	messages := []models.Message{}
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *DynamoMessageRepository) unreadQuery(matchID, readerID string) *dynamodb.QueryInput {
	return &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("matchId = :match"),
		FilterExpression:       aws.String("#read = :false AND senderId <> :reader"),
		ExpressionAttributeNames: map[string]string{
			"#read": "read",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":match":  &types.AttributeValueMemberS{Value: matchID},
			":false":  &types.AttributeValueMemberBOOL{Value: false},
			":reader": &types.AttributeValueMemberS{Value: readerID},
		},
		ScanIndexForward: aws.Bool(false),
	}
}

func (r *DynamoMessageRepository) ListUnread(ctx context.Context, matchID, readerID string) ([]models.Message, error) {
	items, err := r.ds.QueryAll(ctx, r.unreadQuery(matchID, readerID), nil)
	if err != nil {
		return nil, err
	}
	messages := []models.Message{}
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	return messages, nil
}

func (r *DynamoMessageRepository) LatestUnread(ctx context.Context, matchID, readerID string) (*models.Message, error) {
	items, err := r.ds.QueryAll(ctx, r.unreadQuery(matchID, readerID), func(items []map[string]types.AttributeValue) bool {
		return len(items) > 0
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	var msg models.Message
	if err := attributevalue.UnmarshalMap(items[0], &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &msg, nil
}

// MarkMessagesRead only touches the given messages, so anything written after the
// caller's read stays unread.
func (r *DynamoMessageRepository) MarkMessagesRead(ctx context.Context, msgs []models.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	updates := make([]types.Update, 0, len(msgs))
	for _, m := range msgs {
		updates = append(updates, types.Update{
			TableName: aws.String(r.table),
			Key: map[string]types.AttributeValue{
				"matchId": &types.AttributeValueMemberS{Value: m.MatchID},
				"sortKey": &types.AttributeValueMemberS{Value: m.SortKey},
			},
			UpdateExpression:          aws.String("SET #read = :true"),
			ExpressionAttributeNames:  map[string]string{"#read": "read"},
			ExpressionAttributeValues: map[string]types.AttributeValue{":true": &types.AttributeValueMemberBOOL{Value: true}},
		})
	}
	return r.ds.TransactUpdate(ctx, updates)
}
