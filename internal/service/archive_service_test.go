package service

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (p *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	p.input = params
	p.body, _ = io.ReadAll(params.Body)
	if p.err != nil {
		return nil, p.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestArchiver_KeyLayout(t *testing.T) {
	putter := &fakePutter{}
	at := time.Date(2026, 3, 2, 23, 30, 0, 0, time.FixedZone("X", -2*3600))

	key, err := NewArchiver(putter, "raw-bucket").Archive(context.Background(), "youtube", "UC1", at, map[string]int{"views": 3})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^raw/youtube/UC1/2026-03-03/[A-Za-z0-9_-]{21}\.json$`), key)
	assert.Equal(t, "raw-bucket", aws.ToString(putter.input.Bucket))
	assert.Equal(t, key, aws.ToString(putter.input.Key))
	assert.Equal(t, "application/json", aws.ToString(putter.input.ContentType))
	assert.JSONEq(t, `{"views":3}`, string(putter.body))
}

func TestArchiver_PutError(t *testing.T) {
	putter := &fakePutter{err: errors.New("access denied")}

	key, err := NewArchiver(putter, "b").Archive(context.Background(), "youtube", "UC1", time.Now(), struct{}{})
	assert.Error(t, err)
	assert.Empty(t, key)
}

func TestNoopArchiver(t *testing.T) {
	key, err := NewNoopArchiver().Archive(context.Background(), "youtube", "UC1", time.Now(), nil)
	assert.NoError(t, err)
	assert.Empty(t, key)
}
