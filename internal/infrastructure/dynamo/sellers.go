package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/seller-portal-api/internal/domain"
)

// SellerRepo provides typed DynamoDB operations for the sellers table.
// Each seller is a single document embedding its product list; the product
// helpers below rely on DynamoDB's per-call atomicity for list operations.
type SellerRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSellerRepo(client *dynamodb.Client, tableName string) *SellerRepo {
	return &SellerRepo{client: client, tableName: tableName}
}

func (r *SellerRepo) Put(ctx context.Context, s *domain.Seller) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal seller: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *SellerRepo) Get(ctx context.Context, sellerID string) (*domain.Seller, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("seller_id", sellerID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("seller not found: %w", domain.ErrNotFound)
	}
	var s domain.Seller
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByEmail looks a seller up through the email GSI. Email is the unique
// registration key.
func (r *SellerRepo) GetByEmail(ctx context.Context, email string) (*domain.Seller, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("email-index"),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": "email"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("seller not found: %w", domain.ErrNotFound)
	}
	var s domain.Seller
	if err := attributevalue.UnmarshalMap(out.Items[0], &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SellerRepo) Update(ctx context.Context, sellerID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("seller_id", sellerID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(seller_id)"),
	})
	return mapConditionErr(err)
}

// AppendProduct atomically appends one product to the seller's embedded
// list (the document-store equivalent of an array push).
func (r *SellerRepo) AppendProduct(ctx context.Context, sellerID string, p domain.Product) error {
	av, err := attributevalue.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("seller_id", sellerID),
		UpdateExpression: aws.String("SET products = list_append(if_not_exists(products, :empty), :p), updated_at = :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p":     &types.AttributeValueMemberL{Value: []types.AttributeValue{av}},
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":now":   &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
		ConditionExpression: aws.String("attribute_exists(seller_id)"),
	})
	return mapConditionErr(err)
}

// SetProductAt overwrites the product at index i in place.
func (r *SellerRepo) SetProductAt(ctx context.Context, sellerID string, i int, p domain.Product) error {
	av, err := attributevalue.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("seller_id", sellerID),
		UpdateExpression: aws.String(fmt.Sprintf("SET products[%d] = :p, updated_at = :now", i)),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p":   av,
			":now": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
		ConditionExpression: aws.String("attribute_exists(seller_id)"),
	})
	return mapConditionErr(err)
}

// RemoveProductAt removes the product at index i (the array-pull analogue).
func (r *SellerRepo) RemoveProductAt(ctx context.Context, sellerID string, i int) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("seller_id", sellerID),
		UpdateExpression: aws.String(fmt.Sprintf("REMOVE products[%d] SET updated_at = :now", i)),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
		ConditionExpression: aws.String("attribute_exists(seller_id)"),
	})
	return mapConditionErr(err)
}

// mapConditionErr converts a failed attribute_exists condition into the
// domain not-found sentinel.
func mapConditionErr(err error) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("seller not found: %w", domain.ErrNotFound)
	}
	return err
}
