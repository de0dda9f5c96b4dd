package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"ideaswipe_server/config"
)

// maxTransactItems bounds each TransactWriteItems call.
const maxTransactItems = 25

// DynamoAPI is the subset of the DynamoDB client used here.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchGetItem(ctx context.Context, in *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// DynamoService wraps the client with the handful of access patterns the tables need.
type DynamoService struct {
	Client DynamoAPI
	log    *zap.SugaredLogger
}

func NewDynamoService(client DynamoAPI, log *zap.SugaredLogger) *DynamoService {
	return &DynamoService{Client: client, log: log}
}

// InitializeDynamoDBClient builds a client from the default AWS credential chain.
// DYNAMO_ENDPOINT points it at DynamoDB Local.
func InitializeDynamoDBClient(ctx context.Context, cfg *config.Config) (*dynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
		}
	}), nil
}

// NewDynamoStore wires every DynamoDB backed repository. Tallies are left to the caller.
func NewDynamoStore(ds *DynamoService, tables config.Tables) *Store {
	return &Store{
		Ideas:    &DynamoIdeaDirectory{ds: ds, table: tables.Ideas},
		Users:    &DynamoUserDirectory{ds: ds, table: tables.UserProfiles},
		Swipes:   &DynamoSwipeRepository{ds: ds, table: tables.Swipes, likesTable: tables.IdeaLikes},
		Matches:  &DynamoMatchRepository{ds: ds, table: tables.Matches},
		Requests: &DynamoRequestRepository{ds: ds, table: tables.Requests},
		Messages: &DynamoMessageRepository{ds: ds, table: tables.Messages},
	}
}

// PutIfAbsent inserts item unless an item with the same key attribute exists.
func (ds *DynamoService) PutIfAbsent(ctx context.Context, tableName, keyAttr string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(tableName),
		Item:                     marshaled,
		ConditionExpression:      aws.String("attribute_not_exists(#k)"),
		ExpressionAttributeNames: map[string]string{"#k": keyAttr},
	})
	if err != nil {
		if isConditionalFailure(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to put item in table '%s': %w", tableName, err)
	}
	return nil
}

// PutItem writes item unconditionally.
func (ds *DynamoService) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      marshaled,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in table '%s': %w", tableName, err)
	}
	return nil
}

// GetItem loads one item into out, returning ErrNotFound when absent.
func (ds *DynamoService) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue, out interface{}) error {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(tableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to get item from table '%s': %w", tableName, err)
	}
	if output.Item == nil {
		return ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(output.Item, out); err != nil {
		return fmt.Errorf("failed to unmarshal item from table '%s': %w", tableName, err)
	}
	return nil
}

// UpdateItem applies an update expression. A failed condition maps to ErrConditionFailed.
// When out is non-nil the new item image is unmarshaled into it.
func (ds *DynamoService) UpdateItem(
	ctx context.Context,
	tableName string,
	key map[string]types.AttributeValue,
	updateExpression string,
	conditionExpression string,
	expressionAttributeNames map[string]string,
	expressionAttributeValues map[string]types.AttributeValue,
	out interface{},
) error {
	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(tableName),
		Key:                       key,
		UpdateExpression:          aws.String(updateExpression),
		ExpressionAttributeNames:  expressionAttributeNames,
		ExpressionAttributeValues: expressionAttributeValues,
		ReturnValues:              types.ReturnValueAllNew,
	}
	if conditionExpression != "" {
		input.ConditionExpression = aws.String(conditionExpression)
	}

	output, err := ds.Client.UpdateItem(ctx, input)
	if err != nil {
		if isConditionalFailure(err) {
			return ErrConditionFailed
		}
		return fmt.Errorf("failed to update item in table '%s': %w", tableName, err)
	}
	if out != nil && output.Attributes != nil {
		if err := attributevalue.UnmarshalMap(output.Attributes, out); err != nil {
			return fmt.Errorf("failed to unmarshal updated item: %w", err)
		}
	}
	return nil
}

// QueryAll follows LastEvaluatedKey until the query is exhausted or stop returns true.
func (ds *DynamoService) QueryAll(
	ctx context.Context,
	input *dynamodb.QueryInput,
	stop func(items []map[string]types.AttributeValue) bool,
) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewQueryPaginator(ds.Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			index := ""
			if input.IndexName != nil {
				index = *input.IndexName
			}
			return nil, fmt.Errorf("failed to query table '%s' index '%s': %w", aws.ToString(input.TableName), index, err)
		}
		items = append(items, page.Items...)
		if stop != nil && stop(items) {
			break
		}
	}
	return items, nil
}

// TransactUpdate runs the updates in chunks; each chunk commits atomically.
func (ds *DynamoService) TransactUpdate(ctx context.Context, updates []types.Update) error {
	for i := 0; i < len(updates); i += maxTransactItems {
		end := i + maxTransactItems
		if end > len(updates) {
			end = len(updates)
		}

		items := make([]types.TransactWriteItem, 0, end-i)
		for j := range updates[i:end] {
			items = append(items, types.TransactWriteItem{Update: &updates[i+j]})
		}

		if _, err := ds.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
			return fmt.Errorf("failed to commit %d updates: %w", len(items), err)
		}
		ds.log.Debugw("committed update batch", "items", len(items))
	}
	return nil
}

// BatchGet fetches items by key, retrying unprocessed keys. Keys are chunked at 100.
func (ds *DynamoService) BatchGet(ctx context.Context, tableName string, keys []map[string]types.AttributeValue) ([]map[string]types.AttributeValue, error) {
	const maxBatchSize = 100
	var items []map[string]types.AttributeValue

	for i := 0; i < len(keys); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		request := map[string]types.KeysAndAttributes{
			tableName: {Keys: keys[i:end]},
		}
		for len(request) > 0 {
			output, err := ds.Client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
			if err != nil {
				return nil, fmt.Errorf("failed to batch get from table '%s': %w", tableName, err)
			}
			items = append(items, output.Responses[tableName]...)
			request = output.UnprocessedKeys
		}
	}
	return items, nil
}

func stringKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{name: &types.AttributeValueMemberS{Value: value}}
}

func isConditionalFailure(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for _, reason := range canceled.CancellationReasons {
			if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
				return true
			}
		}
	}
	return false
}
