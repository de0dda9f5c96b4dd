package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"ideaswipe_server/models"
)

// Requests table: PK requestId, derived from (requesterId, ideaId).
// GSI ideaOwnerId-index: PK ideaOwnerId, SK sortKey.
// GSI requesterId-index: PK requesterId, SK sortKey.
const (
	requestsByOwnerIndex     = "ideaOwnerId-index"
	requestsByRequesterIndex = "requesterId-index"
)

type DynamoRequestRepository struct {
	ds    *DynamoService
	table string
}

func (r *DynamoRequestRepository) InsertRequest(ctx context.Context, req *models.Request) error {
	return r.ds.PutIfAbsent(ctx, r.table, "requestId", req)
}

func (r *DynamoRequestRepository) GetRequest(ctx context.Context, requestID string) (*models.Request, error) {
	var req models.Request
	if err := r.ds.GetItem(ctx, r.table, stringKey("requestId", requestID), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *DynamoRequestRepository) TransitionRequest(ctx context.Context, requestID, from, to string, at time.Time) (*models.Request, error) {
	var updated models.Request
	err := r.ds.UpdateItem(ctx, r.table, stringKey("requestId", requestID),
		"SET #status = :to, updatedAt = :at",
		"attribute_exists(requestId) AND #status = :from",
		map[string]string{"#status": "status"},
		map[string]types.AttributeValue{
			":to":   &types.AttributeValueMemberS{Value: to},
			":from": &types.AttributeValueMemberS{Value: from},
			":at":   &types.AttributeValueMemberS{Value: at.Format(time.RFC3339Nano)},
		},
		&updated,
	)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *DynamoRequestRepository) ListRequestsByOwner(ctx context.Context, ownerID string) ([]models.Request, error) {
	return r.listByIndex(ctx, requestsByOwnerIndex, "ideaOwnerId", ownerID)
}

func (r *DynamoRequestRepository) ListRequestsByRequester(ctx context.Context, requesterID string) ([]models.Request, error) {
	return r.listByIndex(ctx, requestsByRequesterIndex, "requesterId", requesterID)
}

// listByIndex returns requests newest first.
func (r *DynamoRequestRepository) listByIndex(ctx context.Context, index, attr, value string) ([]models.Request, error) {
	items, err := r.ds.QueryAll(ctx, &dynamodb.QueryInput{
		TableName:                aws.String(r.table),
		IndexName:                aws.String(index),
		KeyConditionExpression:   aws.String("#k = :v"),
		ExpressionAttributeNames: map[string]string{"#k": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
		ScanIndexForward: aws.Bool(false),
	}, nil)
	if err != nil {
		return nil, err
	}

	requests := []models.Request{}
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal requests: %w", err)
	}
	return requests, nil
}

func (r *DynamoRequestRepository) MarkRequestsViewed(ctx context.Context, requestIDs []string) error {
	return r.setFlag(ctx, requestIDs, "viewed")
}

func (r *DynamoRequestRepository) MarkAcceptedSeen(ctx context.Context, requestIDs []string) error {
	return r.setFlag(ctx, requestIDs, "acceptedSeen")
}

func (r *DynamoRequestRepository) setFlag(ctx context.Context, requestIDs []string, attribute string) error {
	if len(requestIDs) == 0 {
		return nil
	}
	if len(requestIDs) == 1 {
		err := r.ds.UpdateItem(ctx, r.table, stringKey("requestId", requestIDs[0]),
			"SET #flag = :true",
			"attribute_exists(requestId)",
			map[string]string{"#flag": attribute},
			map[string]types.AttributeValue{":true": &types.AttributeValueMemberBOOL{Value: true}},
			nil,
		)
		if errors.Is(err, ErrConditionFailed) {
			return ErrNotFound
		}
		return err
	}

	updates := make([]types.Update, 0, len(requestIDs))
	for _, id := range requestIDs {
		updates = append(updates, types.Update{
			TableName:                 aws.String(r.table),
			Key:                       stringKey("requestId", id),
			UpdateExpression:          aws.String("SET #flag = :true"),
			ExpressionAttributeNames:  map[string]string{"#flag": attribute},
			ExpressionAttributeValues: map[string]types.AttributeValue{":true": &types.AttributeValueMemberBOOL{Value: true}},
		})
	}
	return r.ds.TransactUpdate(ctx, updates)
}
