package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrNoAttributes is returned by Update when the attribute set is empty.
var ErrNoAttributes = errors.New("store: update requires at least one attribute")

// Store is the single-table adapter. All entity access goes through it;
// failures surface wrapped and opaque, retries are the caller's concern.
type Store struct {
	client *dynamodb.Client
	table  string
}

func New(client *dynamodb.Client, table string) *Store {
	return &Store{client: client, table: table}
}

func key(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

func (s *Store) Create(ctx context.Context, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("store: marshal item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("store: put item: %w", err)
	}
	return nil
}

// Get loads the item at (pk, sk) into out. The second return is false when
// no item exists.
func (s *Store) Get(ctx context.Context, pk, sk string, out any) (bool, error) {
	res, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       key(pk, sk),
	})
	if err != nil {
		return false, fmt.Errorf("store: get item: %w", err)
	}
	if len(res.Item) == 0 {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return false, fmt.Errorf("store: unmarshal item: %w", err)
	}
	return true, nil
}

// Update applies a partial write over the named attributes. A nil value
// removes the attribute instead of setting it.
func (s *Store) Update(ctx context.Context, pk, sk string, attrs map[string]any) error {
	expr, names, values, err := BuildUpdate(attrs)
	if err != nil {
		return err
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       key(pk, sk),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return fmt.Errorf("store: update item: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, pk, sk string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       key(pk, sk),
	})
	if err != nil {
		return fmt.Errorf("store: delete item: %w", err)
	}
	return nil
}

// QueryPrefix returns every item under pk whose sort key begins with skPrefix,
// unmarshalled into out (a pointer to a slice).
func (s *Store) QueryPrefix(ctx context.Context, pk, skPrefix string, out any) error {
	res, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pk},
			":sk": &types.AttributeValueMemberS{Value: skPrefix},
		},
	})
	if err != nil {
		return fmt.Errorf("store: query prefix: %w", err)
	}
	if err := attributevalue.UnmarshalListOfMaps(res.Items, out); err != nil {
		return fmt.Errorf("store: unmarshal query result: %w", err)
	}
	return nil
}

// QueryIndex runs an equality query on a secondary index. attr is the index
// hash attribute name ("Type", "email", "userId", "GSI1PK").
func (s *Store) QueryIndex(ctx context.Context, index, attr, value string, out any) error {
	res, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#k = :v"),
		ExpressionAttributeNames: map[string]string{
			"#k": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
	})
	if err != nil {
		return fmt.Errorf("store: query index %s: %w", index, err)
	}
	if err := attributevalue.UnmarshalListOfMaps(res.Items, out); err != nil {
		return fmt.Errorf("store: unmarshal query result: %w", err)
	}
	return nil
}

// BuildUpdate assembles an update expression with #name/:value
// placeholders. Attributes with a nil value go into a REMOVE clause; index
// key attributes must never be written as empty strings, they are removed.
// Attribute order is stable so the expression is deterministic.
func BuildUpdate(attrs map[string]any) (string, map[string]string, map[string]types.AttributeValue, error) {
	if len(attrs) == 0 {
		return "", nil, nil, ErrNoAttributes
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys))
	removes := make([]string, 0)
	names := make(map[string]string, len(keys))
	values := map[string]types.AttributeValue{}

	for _, k := range keys {
		names["#"+k] = k

		if attrs[k] == nil {
			removes = append(removes, "#"+k)
			continue
		}

		av, err := attributevalue.Marshal(attrs[k])
		if err != nil {
			return "", nil, nil, fmt.Errorf("store: marshal attribute %s: %w", k, err)
		}
		sets = append(sets, fmt.Sprintf("#%s = :%s", k, k))
		values[":"+k] = av
	}

	clauses := make([]string, 0, 2)
	if len(sets) > 0 {
		clauses = append(clauses, "SET "+strings.Join(sets, ", "))
	}
	if len(removes) > 0 {
		clauses = append(clauses, "REMOVE "+strings.Join(removes, ", "))
	}
	if len(values) == 0 {
		values = nil
	}

	return strings.Join(clauses, " "), names, values, nil
}
