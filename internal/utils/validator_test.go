package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ticney/archi-planning/internal/utils"
)

// TestValidateRequestID 测试请求 ID 校验
func TestValidateRequestID(t *testing.T) {
	assert.NoError(t, utils.ValidateRequestID("550e8400-e29b-41d4-a716-446655440000"))
	assert.NoError(t, utils.ValidateRequestID("req_001"))

	assert.Error(t, utils.ValidateRequestID(""))
	assert.Error(t, utils.ValidateRequestID("id with spaces"))
	assert.Error(t, utils.ValidateRequestID("id;drop table"))
}

// TestValidateTopic 测试议题标识校验
func TestValidateTopic(t *testing.T) {
	assert.NoError(t, utils.ValidateTopic("standard"))
	assert.NoError(t, utils.ValidateTopic("strategic"))
	assert.NoError(t, utils.ValidateTopic("fast_track2"))

	assert.Error(t, utils.ValidateTopic(""))
	assert.Error(t, utils.ValidateTopic("Standard"))
	assert.Error(t, utils.ValidateTopic("2track"))
	assert.Error(t, utils.ValidateTopic("has space"))
}
