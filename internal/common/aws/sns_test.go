package aws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSNS struct {
	mock.Mock
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*sns.PublishOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSNSClient_PublishJSON(t *testing.T) {
	api := new(mockSNS)
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		var body map[string]string
		if err := json.Unmarshal([]byte(awssdk.ToString(in.Message)), &body); err != nil {
			return false
		}
		attr := in.MessageAttributes["decision"]
		return awssdk.ToString(in.TopicArn) == "arn:aws:sns:us-east-1:123:decisions" &&
			awssdk.ToString(in.Subject) == "Underwriting decision" &&
			body["decision"] == "ACCEPT" &&
			awssdk.ToString(attr.StringValue) == "ACCEPT" &&
			awssdk.ToString(attr.DataType) == "String"
	})).Return(&sns.PublishOutput{MessageId: awssdk.String("msg-1")}, nil)

	client := NewSNSClientWithAPI(api)
	id, err := client.PublishJSON(context.Background(),
		"arn:aws:sns:us-east-1:123:decisions",
		"Underwriting decision",
		map[string]string{"decision": "ACCEPT"},
		map[string]string{"decision": "ACCEPT"},
	)

	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	api.AssertExpectations(t)
}

func TestSNSClient_PublishJSONError(t *testing.T) {
	api := new(mockSNS)
	api.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	client := NewSNSClientWithAPI(api)
	_, err := client.PublishJSON(context.Background(), "arn:topic", "", map[string]int{"a": 1}, nil)

	assert.ErrorContains(t, err, "throttled")
	assert.ErrorContains(t, err, "arn:topic")
}

func TestSNSClient_PublishJSONUnmarshalable(t *testing.T) {
	client := NewSNSClientWithAPI(new(mockSNS))

	_, err := client.PublishJSON(context.Background(), "arn:topic", "", make(chan int), nil)
	assert.ErrorContains(t, err, "marshal")
}
