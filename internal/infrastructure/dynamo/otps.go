package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/agrochain-api/internal/domain"
	"github.com/agrochain-api/internal/otp"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// OTPStore is the shared otp.Store backing for multi-instance deployments.
// PK: email. The expires_at attribute doubles as the table's DynamoDB TTL, so
// entries the lazy-expiry path never revisits are eventually reaped by the
// table itself.
type OTPStore struct {
	client    *dynamodb.Client
	tableName string
}

var _ otp.Store = (*OTPStore)(nil)

func NewOTPStore(client *dynamodb.Client, tableName string) *OTPStore {
	return &OTPStore{client: client, tableName: tableName}
}

// Issue generates a fresh code and unconditionally overwrites the slot for
// key. PutItem replaces the whole item, which is exactly the
// last-issued-wins contract.
func (s *OTPStore) Issue(ctx context.Context, key string) (*otp.PendingCode, error) {
	code, err := otp.Generate()
	if err != nil {
		return nil, err
	}
	pc := &otp.PendingCode{
		Key:       key,
		Code:      code,
		ExpiresAt: time.Now().Add(otp.TTL).Unix(),
	}
	item, err := attributevalue.MarshalMap(pc)
	if err != nil {
		return nil, fmt.Errorf("marshal pending code: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return nil, err
	}
	return pc, nil
}

func (s *OTPStore) Peek(ctx context.Context, key string) (*otp.PendingCode, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       strKey("email", key),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("no pending code for %s: %w", key, domain.ErrNotFound)
	}
	var pc otp.PendingCode
	if err := attributevalue.UnmarshalMap(out.Item, &pc); err != nil {
		return nil, err
	}
	return &pc, nil
}

// Consume deletes the entry and returns what was stored, in one round trip.
// ReturnValues ALL_OLD makes the remove-and-read atomic, so two concurrent
// consumers cannot both redeem the same code.
func (s *OTPStore) Consume(ctx context.Context, key string) (*otp.PendingCode, error) {
	out, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.tableName),
		Key:          strKey("email", key),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, err
	}
	if len(out.Attributes) == 0 {
		return nil, fmt.Errorf("no pending code for %s: %w", key, domain.ErrNotFound)
	}
	var pc otp.PendingCode
	if err := attributevalue.UnmarshalMap(out.Attributes, &pc); err != nil {
		return nil, err
	}
	return &pc, nil
}

func (s *OTPStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       strKey("email", key),
	})
	return err
}
